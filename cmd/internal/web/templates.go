package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}

// formPage is the payload for the login and register templates.
type formPage struct {
	Notice string
}

// dashboardPage is the payload for the dashboard template.
type dashboardPage struct {
	Email     string
	CreatedAt time.Time
}

func (h *Handler) render(w http.ResponseWriter, log *slog.Logger, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error("web.render.fail", "template", name, "err", err)
	}
}
