package handler

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"go-account-portal/internal/web"
)

// PageHandler serves the embedded page shells. Authentication and redirects
// are the route guard's job; these handlers just render.
type PageHandler struct {
	templates *template.Template
	static    http.Handler
}

func NewPageHandler() (*PageHandler, error) {
	templates, err := template.ParseFS(web.FS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	staticFS, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		templates: templates,
		static:    http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))),
	}, nil
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html")
}

func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html")
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "dashboard.html")
}

func (h *PageHandler) Static() http.Handler {
	return h.static
}

func (h *PageHandler) render(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, nil); err != nil {
		slog.Error("render page", "template", name, "error", err)
	}
}
