package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-site/profile"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{"home", "blog", "post", "not_found"}

// view is the data every page template receives.
type view struct {
	Meta    Metadata
	Profile *profile.Profile
	Year    int
	Body    any
}

type renderer struct {
	pages    map[string]*template.Template
	logger   zerolog.Logger
	mediaURL func(string) string
}

func newRenderer(logger zerolog.Logger, mediaBaseURL string) (*renderer, error) {
	r := &renderer{
		pages:  make(map[string]*template.Template),
		logger: logger,
		mediaURL: func(raw string) string {
			if mediaBaseURL != "" && strings.HasPrefix(raw, "/") {
				return strings.TrimRight(mediaBaseURL, "/") + raw
			}
			return raw
		},
	}

	funcs := template.FuncMap{
		"postPath":   PostPath,
		"filterURL":  FilterURL,
		"mediaURL":   r.mediaURL,
		"formatDate": formatDate,
	}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// render executes page into a buffer first so a template failure still
// produces a clean 500.
func (r *renderer) render(w http.ResponseWriter, status int, page string, v view) {
	tmpl, ok := r.pages[page]
	if !ok {
		r.logger.Error().Str("page", page).Msg("unknown page template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if v.Year == 0 {
		v.Year = time.Now().Year()
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		r.logger.Error().Err(err).Str("page", page).Msg("error rendering page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error().Err(err).Msg("error writing page")
	}
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}
