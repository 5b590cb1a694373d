package render

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"html/template"
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var b64ImageMime = regexp.MustCompile(`^image/(png|jpeg|jpg|gif)$`)

// markup converts and sanitises the HTML that comes from notebook content.
type markup struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newMarkup() *markup {
	return &markup{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Raw HTML is kept here and cleaned by the policy afterwards.
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

func (m *markup) funcs() template.FuncMap {
	return template.FuncMap{
		"md2html":    m.markdown,
		"safehtml":   m.sanitize,
		"ansi":       ansi.Strip,
		"isjson":     IsJSON,
		"isb64image": IsB64Image,
		"datauri":    DataURI,
		"prettyjson": PrettyJSON,
	}
}

// markdown renders GitHub-flavoured markdown to sanitised HTML. Input that
// goldmark rejects is shown escaped.
func (m *markup) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(m.policy.SanitizeBytes(buf.Bytes()))
}

func (m *markup) sanitize(s string) template.HTML {
	return template.HTML(m.policy.Sanitize(s))
}

// IsJSON reports whether mime is JSON or a +json type.
func IsJSON(mime string) bool {
	return mime == "application/json" || strings.HasSuffix(mime, "+json")
}

// IsB64Image reports whether mime is a raster image, which notebooks store
// base64 encoded.
func IsB64Image(mime string) bool {
	return b64ImageMime.MatchString(mime)
}

// DataURI builds an image data URI. Raster payloads are already base64 and
// only lose their line breaks; SVG text is encoded here.
func DataURI(mime, payload string) template.URL {
	var data string
	if IsB64Image(mime) {
		data = strings.Join(strings.Fields(payload), "")
	} else {
		data = base64.StdEncoding.EncodeToString([]byte(payload))
	}
	return template.URL("data:" + mime + ";base64," + data)
}

// PrettyJSON indents a JSON payload. Invalid JSON is returned unchanged.
func PrettyJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}
