// Package render stitches highlighted cells, rendered markdown and the
// theme's colours into a standalone HTML document.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/jmylchreest/elara/internal/notebook"
	"github.com/jmylchreest/elara/internal/theme"
)

//go:embed templates/*.html
var templates embed.FS

const exportTemplate = "export.html"

// Page is everything the export template needs for one document.
type Page struct {
	Filename string
	Date     time.Time
	BodyFont Font
	CodeFont Font
	Theme    *theme.Theme
	TokenCSS template.CSS // stylesheet from the highlighter
	Cells    []Cell
}

// Cell is one notebook cell ready for the template. Code holds the
// highlighted (or plain escaped) source of a code cell.
type Cell struct {
	ID             string
	Type           string
	Source         string
	Code           template.HTML
	ExecutionCount *int
	Outputs        []notebook.Output
}

// Palette is the resolved set of page colours.
type Palette struct {
	Background     string
	Foreground     string
	CodeBackground string
	CodeForeground string
	Link           string
	LinkHover      string
	Border         string
}

var (
	darkPalette = Palette{
		Background:     "#1e1e1e",
		Foreground:     "#d4d4d4",
		CodeBackground: "#252526",
		CodeForeground: "#d4d4d4",
		Link:           "#3794ff",
		LinkHover:      "#4daafc",
		Border:         "#3c3c3c",
	}
	lightPalette = Palette{
		Background:     "#ffffff",
		Foreground:     "#1f2328",
		CodeBackground: "#f6f8fa",
		CodeForeground: "#1f2328",
		Link:           "#0969da",
		LinkHover:      "#0550ae",
		Border:         "#d0d7de",
	}
)

// Palette fills the theme's UI colours with defaults for its brightness.
func (p Page) Palette() Palette {
	if p.Theme == nil {
		return lightPalette
	}
	pal := lightPalette
	if p.Theme.Dark() {
		pal = darkPalette
	}
	ui := p.Theme.UI
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&pal.Background, ui.BodyBackground)
	pick(&pal.Foreground, ui.BodyForeground)
	pick(&pal.CodeBackground, ui.CodeBackground)
	pick(&pal.CodeForeground, ui.CodeForeground)
	pick(&pal.Link, ui.Link)
	pick(&pal.LinkHover, ui.LinkHover)
	return pal
}

// FontsURL is the Google Fonts stylesheet for the page fonts, if any.
func (p Page) FontsURL() string {
	return GoogleFontsURL(p.BodyFont, p.CodeFont)
}

// Renderer executes the export template. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	m := newMarkup()
	tmpl, err := template.New(exportTemplate).Funcs(m.funcs()).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the HTML document for p to w.
func (r *Renderer) Render(w io.Writer, p Page) error {
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	if err := r.tmpl.ExecuteTemplate(w, exportTemplate, p); err != nil {
		return fmt.Errorf("failed to render %s: %w", p.Filename, err)
	}
	return nil
}
