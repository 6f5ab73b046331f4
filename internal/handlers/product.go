package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/cloudshop/uisuite/internal/config"
	"github.com/cloudshop/uisuite/internal/sandbox"
)

// SaveProductHandler stores the submitted product card
type SaveProductHandler struct {
	store CatalogStore
}

// NewSaveProductHandler creates a new save handler
func NewSaveProductHandler(store CatalogStore) *SaveProductHandler {
	return &SaveProductHandler{store: store}
}

// ServeHTTP handles POST /card/catalog/save
func (h *SaveProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	values := map[string]string{}
	for _, key := range append(append([]string{}, sandbox.TextFields...), sandbox.NumericFields...) {
		if _, ok := r.PostForm[key]; ok {
			values[key] = r.PostForm.Get(key)
		}
	}

	card, err := h.store.Save(r.PostForm.Get("id"), values)
	if err != nil {
		log.Printf("Product not saved: %v", err)
		http.Redirect(w, r, config.CatalogPath+"?error="+url.QueryEscape("Товар не сохранён: "+err.Error()), http.StatusSeeOther)
		return
	}

	log.Printf("Product saved - ID: %s, Name: %s", card.ID, card.Name())
	http.Redirect(w, r, config.CatalogPath, http.StatusSeeOther)
}

// DeleteProductsHandler moves the selected products to the trash
type DeleteProductsHandler struct {
	store CatalogStore
}

// NewDeleteProductsHandler creates a new delete handler
func NewDeleteProductsHandler(store CatalogStore) *DeleteProductsHandler {
	return &DeleteProductsHandler{store: store}
}

// ServeHTTP handles POST /card/catalog/delete with a comma separated ids field
func (h *DeleteProductsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	var ids []string
	for _, id := range strings.Split(r.PostForm.Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	moved := h.store.Trash(ids...)
	log.Printf("Moved %d of %d products to trash", moved, len(ids))
	http.Redirect(w, r, config.CatalogPath, http.StatusSeeOther)
}
