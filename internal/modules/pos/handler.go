package pos

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmwale/pos-backend/internal/modules/inventory"
)

// Handler exposes checkout and sales HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Post("/api/checkout", h.checkout)                 // POST /api/checkout
	r.Get("/api/sales", h.listSales)                    // GET  /api/sales
	r.Put("/api/sales/refund/{receiptId}", h.refund)    // PUT  /api/sales/refund/{receiptId}
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}
	receiptID, err := h.service.Checkout(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{"success": true, "receiptId": receiptID})
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.ListSales(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if sales == nil {
		sales = []*Sale{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "sales": sales})
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	var req RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}
	refundType, lines, err := h.service.Refund(r.Context(), chi.URLParam(r, "receiptId"), req.Resellable)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("refunded %d lines as %s", lines, refundType),
	})
}

func respondError(w http.ResponseWriter, err error) {
	var notFound *ProductNotFoundError
	var insufficient *inventory.InsufficientStockError
	switch {
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrBarcodeRequired):
		respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": err.Error()})
	case errors.As(err, &notFound):
		respond(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": err.Error()})
	case errors.Is(err, ErrAlreadyRefundedOrNotFound):
		respond(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": err.Error()})
	case errors.As(err, &insufficient):
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
