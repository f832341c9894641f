package httpserver

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/pie-flavor/yahtzee/assets"
)

type renderer struct {
	tmpl *template.Template
}

type errorView struct {
	Code    int
	Message string
}

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
}

func newRenderer() (*renderer, error) {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(assets.FS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &renderer{tmpl: t}, nil
}

// html renders the named template into a buffer first so a template error
// still produces a clean 500.
func (v *renderer) html(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("render")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (v *renderer) errorPage(w http.ResponseWriter, r *http.Request, status int) {
	v.html(w, r, status, "error.html", errorView{Code: status, Message: http.StatusText(status)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
