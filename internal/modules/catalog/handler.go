package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes category HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.list)          // GET    /api/categories
		r.Post("/", h.create)       // POST   /api/categories
		r.Delete("/{id}", h.delete) // DELETE /api/categories/{id}
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.ListCategories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if cats == nil {
		cats = []*Category{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "categories": cats})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}
	c, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{"success": true, "category": c})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "message": "category deleted"})
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNameRequired):
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": err.Error()})
	case errors.Is(err, ErrNotFound):
		respond(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": err.Error()})
	case errors.Is(err, ErrDuplicate):
		respond(w, http.StatusConflict, map[string]interface{}{"success": false, "error": err.Error()})
	default:
		respond(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "server error"})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
