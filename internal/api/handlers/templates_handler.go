package handlers

import (
	"net/http"

	"github.com/Snickdx/project-graph/internal/api/response"
	"github.com/Snickdx/project-graph/internal/catalog"
)

// TemplatesHandler exposes the query template catalog.
type TemplatesHandler struct {
	catalog *catalog.Catalog
}

// NewTemplatesHandler creates a new templates handler.
func NewTemplatesHandler(c *catalog.Catalog) *TemplatesHandler {
	return &TemplatesHandler{catalog: c}
}

// TemplateItem is one catalog entry. Query text stays internal; clients only
// need to know which questions have a prepared answer.
type TemplateItem struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// TemplatesResponse is the response for GET /v1/templates.
type TemplatesResponse struct {
	Templates []TemplateItem `json:"templates"`
}

// List handles GET /v1/templates.
func (h *TemplatesHandler) List(w http.ResponseWriter, _ *http.Request) {
	items := make([]TemplateItem, 0, h.catalog.Len())

	for i := 0; i < h.catalog.Len(); i++ {
		tpl := h.catalog.At(i)
		items = append(items, TemplateItem{Key: tpl.Key, Description: tpl.Description})
	}

	response.RespondJSON(w, http.StatusOK, TemplatesResponse{Templates: items})
}
