// Package convert turns notebook documents into themed HTML files.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/elara/internal/highlight"
	"github.com/jmylchreest/elara/internal/notebook"
	"github.com/jmylchreest/elara/internal/render"
)

// DefaultCellTimeout bounds the highlighting of one code cell.
const DefaultCellTimeout = 5 * time.Second

// Options configures a Converter.
type Options struct {
	Workers     int           // concurrent cell highlighters; <= 0 means GOMAXPROCS
	CellTimeout time.Duration // <= 0 means DefaultCellTimeout
	BodyFont    render.Font
	CodeFont    render.Font
	Validator   notebook.Validator // nil means notebook.StructuralValidator
	Logger      *slog.Logger
}

// Fallback records a code cell that was rendered without highlighting.
type Fallback struct {
	Index  int
	CellID string
	Err    error
}

// Report summarises one conversion.
type Report struct {
	Cells       int
	CodeCells   int
	Highlighted int
	Language    string
	Fallbacks   []Fallback
	Bytes       int
}

// Converter renders notebooks with one highlighter and one template. It
// holds no per-document state and is safe for concurrent use.
type Converter struct {
	hl       *highlight.Highlighter
	renderer *render.Renderer
	opts     Options
	logger   *slog.Logger
}

// New returns a Converter.
func New(hl *highlight.Highlighter, r *render.Renderer, opts Options) *Converter {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.CellTimeout <= 0 {
		opts.CellTimeout = DefaultCellTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{hl: hl, renderer: r, opts: opts, logger: logger}
}

// Convert renders the notebook in data as an HTML document. filename is
// used for the page title. A code cell that cannot be highlighted is shown
// as plain text and listed in the report; it never fails the document.
func (c *Converter) Convert(ctx context.Context, data []byte, filename string) ([]byte, Report, error) {
	nb, err := notebook.Parse(data, c.opts.Validator)
	if err != nil {
		return nil, Report{}, err
	}

	report := Report{
		Cells:     len(nb.Cells),
		CodeCells: nb.CodeCells(),
		Language:  nb.Language(),
	}

	code, fallbacks, err := c.highlightCells(ctx, nb)
	if err != nil {
		return nil, report, err
	}
	for _, fb := range fallbacks {
		if fb != nil {
			report.Fallbacks = append(report.Fallbacks, *fb)
		}
	}
	report.Highlighted = report.CodeCells - len(report.Fallbacks)
	if !isPython(report.Language) {
		report.Highlighted = 0
	}

	page := render.Page{
		Filename: filename,
		Date:     time.Now(),
		BodyFont: c.opts.BodyFont,
		CodeFont: c.opts.CodeFont,
		Theme:    c.hl.Theme(),
		TokenCSS: template.CSS(c.hl.Styles()),
		Cells:    make([]render.Cell, len(nb.Cells)),
	}
	for i, cell := range nb.Cells {
		page.Cells[i] = render.Cell{
			ID:             cell.ID,
			Type:           cell.CellType,
			Source:         cell.Source.String(),
			Code:           code[i],
			ExecutionCount: cell.ExecutionCount,
			Outputs:        cell.Outputs,
		}
	}

	var buf bytes.Buffer
	if err := c.renderer.Render(&buf, page); err != nil {
		return nil, report, err
	}
	report.Bytes = buf.Len()
	return buf.Bytes(), report, nil
}

// highlightCells highlights every code cell concurrently. Results are
// indexed like nb.Cells. Only cancellation of ctx is an error.
func (c *Converter) highlightCells(ctx context.Context, nb *notebook.Notebook) ([]template.HTML, []*Fallback, error) {
	code := make([]template.HTML, len(nb.Cells))
	fallbacks := make([]*Fallback, len(nb.Cells))

	if !isPython(nb.Language()) {
		c.logger.Debug("notebook is not python, code is not highlighted", "language", nb.Language())
		for i, cell := range nb.Cells {
			if cell.IsCode() {
				code[i] = template.HTML(highlight.PlainHTML(cell.Source.String()))
			}
		}
		return code, fallbacks, nil
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i := range nb.Cells {
		cell := &nb.Cells[i]
		if !cell.IsCode() {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cctx, cancel := context.WithTimeout(gctx, c.opts.CellTimeout)
			defer cancel()

			src := cell.Source.String()
			out, err := c.hl.HighlightContext(cctx, src)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Warn("failed to highlight cell, rendering it as plain text",
					"cell", cell.ID, "index", i, "error", err)
				fallbacks[i] = &Fallback{Index: i, CellID: cell.ID, Err: err}
				out = highlight.PlainHTML(src)
			}
			code[i] = template.HTML(out)
			done.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("conversion cancelled: %w", err)
	}
	c.logger.Debug("highlighted code cells", "count", done.Load())
	return code, fallbacks, nil
}

func isPython(language string) bool {
	switch language {
	case "", "python", "python3", "ipython", "ipython3":
		return true
	}
	return false
}

// ConvertFile converts the notebook at input and writes the result next
// to it, or into outDir when set, without overwriting existing files. It
// returns the path written.
func (c *Converter) ConvertFile(ctx context.Context, input, outDir string) (string, Report, error) {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return "", Report{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	path := OutputPath(input, outDir)
	report, err := c.ConvertTo(ctx, input, path)
	if err != nil {
		return "", report, err
	}
	return path, report, nil
}

// ConvertTo converts the notebook at input and writes the result to
// output, replacing it if it exists.
func (c *Converter) ConvertTo(ctx context.Context, input, output string) (Report, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read notebook: %w", err)
	}

	out, report, err := c.Convert(ctx, data, stem(input))
	if err != nil {
		return report, fmt.Errorf("%s: %w", input, err)
	}

	if err := os.WriteFile(output, out, 0o644); err != nil {
		return report, fmt.Errorf("failed to write %s: %w", output, err)
	}
	return report, nil
}

// OutputPath picks the HTML path for input: <stem>.html in dir (or the
// input's directory), then <stem>(1).html, <stem>(2).html and so on until
// a path is free.
func OutputPath(input, dir string) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	name := stem(input)

	path := filepath.Join(dir, name+".html")
	for n := 1; exists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s(%d).html", name, n))
	}
	return path
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
