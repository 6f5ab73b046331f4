package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/cloudshop/uisuite/internal/sandbox"
)

// ProductResponse is the JSON shape of one sandbox product
type ProductResponse struct {
	ID      string            `json:"id"`
	Values  map[string]string `json:"values"`
	Trashed bool              `json:"trashed"`
}

// ProductRequest creates or updates a product through the API
type ProductRequest struct {
	ID     string            `json:"id"`
	Values map[string]string `json:"values"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// APIHandler exposes the sandbox catalog as JSON so tests can seed and inspect it
type APIHandler struct {
	store CatalogStore
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(store CatalogStore) *APIHandler {
	return &APIHandler{store: store}
}

// ServeHTTP handles /api/products.
// GET lists live products (or trashed ones with ?trashed=true), POST saves one and DELETE trashes ?id=.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.save(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *APIHandler) list(w http.ResponseWriter, r *http.Request) {
	var cards []sandbox.Card
	if r.URL.Query().Get("trashed") == "true" {
		cards = h.store.Trashed()
	} else {
		cards = h.store.List(r.URL.Query().Get("q"))
	}

	out := make([]ProductResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, toResponse(card))
	}
	sendJSON(w, http.StatusOK, out)
}

func (h *APIHandler) save(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	card, err := h.store.Save(req.ID, req.Values)
	switch {
	case errors.Is(err, sandbox.ErrProductNotFound):
		sendErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		sendErrorResponse(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	log.Printf("Product saved via API - ID: %s, Name: %s", card.ID, card.Name())
	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	sendJSON(w, status, toResponse(card))
}

func (h *APIHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		sendErrorResponse(w, "Missing id", http.StatusBadRequest)
		return
	}
	if _, err := h.store.Get(id); err != nil {
		sendErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	}

	h.store.Trash(id)
	w.WriteHeader(http.StatusNoContent)
}

func toResponse(card sandbox.Card) ProductResponse {
	return ProductResponse{ID: card.ID, Values: card.Values, Trashed: card.Trashed}
}

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
