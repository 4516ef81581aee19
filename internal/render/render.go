// Package render turns the embedded page templates into gin HTML renders.
// Every page is parsed together with the shared layout so each one can
// fill its own "title" and "content" blocks.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	ginrender "github.com/gin-gonic/gin/render"
	"github.com/ikkim/fyyur-backend/internal/app/model"
	"github.com/ikkim/fyyur-backend/internal/validation"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutFile   = "templates/layouts/main.html"
	partialsGlob = "templates/partials/*.html"
	layoutName   = "layout"
)

// Renderer implements gin's render.HTMLRender over the embedded templates.
type Renderer struct {
	templates map[string]*template.Template
}

var _ ginrender.HTMLRender = (*Renderer)(nil)

// New parses every page under templates/ except the layout and partials.
// Pages are keyed by their path relative to templates/, e.g.
// "pages/venues.html".
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	err := fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		name := strings.TrimPrefix(p, "templates/")
		if p == layoutFile || strings.HasPrefix(name, "partials/") {
			return nil
		}

		tmpl, err := template.New(name).Funcs(Funcs()).ParseFS(templateFS, layoutFile, partialsGlob, p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.templates[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Names lists the parsed page names.
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

func (r *Renderer) Instance(name string, data any) ginrender.Render {
	tmpl, ok := r.templates[name]
	if !ok {
		return missingTemplate{name: name}
	}
	return ginrender.HTML{Template: tmpl, Name: layoutName, Data: data}
}

type missingTemplate struct {
	name string
}

func (m missingTemplate) Render(w http.ResponseWriter) error {
	m.WriteContentType(w)
	return fmt.Errorf("html template %q is not defined", m.name)
}

func (missingTemplate) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{"text/html; charset=utf-8"}
	}
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"datetime":    formatDateTime,
		"contains":    contains,
		"genres":      genreOptions,
		"states":      func() []string { return validation.States },
		"field":       newField,
		"placeholder": withPlaceholder,
	}
}

// Field feeds the shared text input partial.
type Field struct {
	Name        string
	Label       string
	Value       string
	Error       string
	Placeholder string
}

func newField(name, label, value string, errs map[string]string) Field {
	return Field{Name: name, Label: label, Value: value, Error: errs[name]}
}

func withPlaceholder(f Field, text string) Field {
	f.Placeholder = text
	return f
}

// formatDateTime renders a show time the way listings display it,
// e.g. "Tue May 21, 2019 9:30PM".
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("Mon Jan 2, 2006 3:04PM")
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func genreOptions() []string {
	out := make([]string, len(model.AllGenres))
	for i, g := range model.AllGenres {
		out[i] = string(g)
	}
	return out
}
