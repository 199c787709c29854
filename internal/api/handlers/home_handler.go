package handlers

import (
	"html/template"
	"net/http"

	"github.com/isdelr/users-api/internal/catalog"
	"github.com/rs/zerolog/log"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p>{{.Info}}</p>
</body>
</html>
`))

// HomeHandler serves the landing page and the router-level fallbacks.
type HomeHandler struct {
	errCatalog *catalog.Catalog
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(errs *catalog.Catalog) *HomeHandler {
	return &HomeHandler{errCatalog: errs}
}

// Index renders the informational landing page.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, struct {
		Title string
		Info  string
	}{
		Title: "users-api",
		Info:  "users-api app, no UI. The API lives under /api/users.",
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to render index page")
	}
}

// Favicon answers favicon requests with no content.
func (h *HomeHandler) Favicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// NotFound renders the error envelope for unknown routes.
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, h.errCatalog.Lookup(catalog.ResourceNotFound,
		map[string]string{"path": r.URL.Path}, nil))
}

// MethodNotAllowed renders the error envelope for known routes hit with the wrong method.
func (h *HomeHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, h.errCatalog.Lookup(catalog.MethodNotAllowed,
		map[string]string{"method": r.Method, "path": r.URL.Path}, nil))
}
