package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/csrf"

	"vapeur/store"
)

var views = []string{
	"index",
	"games",
	"gameDetail",
	"gameCreate",
	"gameEdit",
	"genres",
	"editors",
	"editorCreate",
	"editorDetail",
	"editorEdit",
}

// Renderer executes one pre-parsed template set per view, each wrapped in the shared layout.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer(files fs.FS) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(views))
	for _, view := range views {
		tmpl, err := template.New("layout.html").
			Funcs(templateFuncs()).
			ParseFS(files, "templates/layout.html", "templates/"+view+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse view %s: %w", view, err)
		}
		templates[view] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"ifEquals": ifEquals,
		"date": func(t time.Time) string {
			return t.Format(store.DateLayout)
		},
		"since": humanize.Time,
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
	}
}

// ifEquals compares two values by their printed form, so 3 equals "3".
func ifEquals(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// Render writes view with data. The page is buffered so template errors still yield a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, view string, data map[string]any) error {
	tmpl, ok := rd.templates[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}

	if data == nil {
		data = map[string]any{}
	}
	data["CSRFField"] = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", view, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
