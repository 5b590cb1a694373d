// Package notebook defines the nbformat 4 notebook document model.
package notebook

import (
	"encoding/json"
	"sort"
	"strings"
)

// Cell types.
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
	CellRaw      = "raw"
)

// Output types.
const (
	OutputExecuteResult = "execute_result"
	OutputDisplayData   = "display_data"
	OutputStream        = "stream"
	OutputError         = "error"
)

// Notebook is a parsed notebook document.
type Notebook struct {
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
	Cells         []Cell         `json:"cells"`
}

// Cell is one notebook cell. Outputs and ExecutionCount are only used by
// code cells.
type Cell struct {
	ID             string         `json:"id,omitempty"`
	CellType       string         `json:"cell_type"`
	Metadata       map[string]any `json:"metadata"`
	Source         Source         `json:"source"`
	Outputs        []Output       `json:"outputs,omitempty"`
	ExecutionCount *int           `json:"execution_count,omitempty"`
}

// IsCode reports whether the cell holds source code.
func (c *Cell) IsCode() bool {
	return c.CellType == CellCode
}

// Output is one output of a code cell, discriminated by OutputType.
type Output struct {
	OutputType     string         `json:"output_type"`
	ExecutionCount *int           `json:"execution_count,omitempty"` // execute_result
	Data           MimeBundle     `json:"data,omitempty"`            // execute_result, display_data
	Metadata       map[string]any `json:"metadata,omitempty"`        // execute_result, display_data
	Name           string         `json:"name,omitempty"`            // stream: stdout or stderr
	Text           Source         `json:"text,omitempty"`            // stream
	EName          string         `json:"ename,omitempty"`           // error
	EValue         string         `json:"evalue,omitempty"`          // error
	Traceback      []string       `json:"traceback,omitempty"`       // error
}

// Source is multi-line text stored either as one string or as a list of
// lines. The list form is concatenated as is; lines keep their own breaks.
type Source string

// UnmarshalJSON accepts a string or a list of strings.
func (s *Source) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Source(str)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*s = Source(strings.Join(lines, ""))
	return nil
}

// String returns the concatenated text.
func (s Source) String() string {
	return string(s)
}

// MimeBundle maps a MIME type to its payload. Payloads stay raw because
// their shape depends on the type: text, a list of lines, or JSON.
type MimeBundle map[string]json.RawMessage

// Has reports whether the bundle carries mime.
func (m MimeBundle) Has(mime string) bool {
	_, ok := m[mime]
	return ok
}

// Text returns the payload for mime as text. String and line-list payloads
// are concatenated; any other JSON value is returned in its compact form.
func (m MimeBundle) Text(mime string) string {
	raw, ok := m[mime]
	if !ok {
		return ""
	}
	var s Source
	if err := json.Unmarshal(raw, &s); err == nil {
		return s.String()
	}
	return string(raw)
}

// richness orders the MIME types the renderer understands, richest first.
var richness = []string{
	"text/html",
	"image/svg+xml",
	"image/png",
	"image/jpeg",
	"image/jpg",
	"text/markdown",
	"application/json",
	"text/plain",
}

// Preferred returns the MIME type to display: the richest known type, or
// the alphabetically first one when none is known.
func (m MimeBundle) Preferred() string {
	for _, mime := range richness {
		if m.Has(mime) {
			return mime
		}
	}
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

// Language returns the notebook's programming language in lower case, or
// "" when the metadata does not name one.
func (nb *Notebook) Language() string {
	if info, ok := nb.Metadata["language_info"].(map[string]any); ok {
		if name, ok := info["name"].(string); ok && name != "" {
			return strings.ToLower(name)
		}
	}
	if spec, ok := nb.Metadata["kernelspec"].(map[string]any); ok {
		if lang, ok := spec["language"].(string); ok && lang != "" {
			return strings.ToLower(lang)
		}
	}
	return ""
}

// CodeCells returns the number of code cells.
func (nb *Notebook) CodeCells() int {
	n := 0
	for i := range nb.Cells {
		if nb.Cells[i].IsCode() {
			n++
		}
	}
	return n
}
