package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"eneagramas-site/internal/app"
	"eneagramas-site/internal/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	domain.Dataset
	Diagram Diagram
	Events  app.EventListing
}

// SiteHandler renders the single page.
type SiteHandler struct {
	Catalog *app.CatalogService
	Logger  *zap.Logger
}

func (h SiteHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, "not_found", "page not found")
		return
	}
	ds, err := h.Catalog.Dataset(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	data := pageData{
		Dataset: ds,
		Diagram: BuildDiagram(ds),
		Events:  app.SplitEvents(ds.Events),
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		h.Logger.Error("render index", zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
