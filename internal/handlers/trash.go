package handlers

import (
	"html/template"
	"log"
	"net/http"
)

// TrashHandler lists deleted products
type TrashHandler struct {
	template *template.Template
	store    CatalogStore
}

// TrashData represents the data for the trash template
type TrashData struct {
	SignedIn bool
	Products []ProductRow
}

// NewTrashHandler creates a new trash handler
func NewTrashHandler(store CatalogStore) (*TrashHandler, error) {
	tmpl, err := parsePage("trash.html")
	if err != nil {
		return nil, err
	}

	return &TrashHandler{
		template: tmpl,
		store:    store,
	}, nil
}

// ServeHTTP handles GET /card/trash/
func (h *TrashHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := TrashData{SignedIn: true, Products: rows(h.store.Trashed())}
	if err := h.template.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
