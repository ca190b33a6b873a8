package inventory

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 10 << 20 // 10 MiB

// Handler exposes product HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.list)                        // GET    /api/products
		r.Post("/", h.create)                     // POST   /api/products
		r.Get("/barcode/{code}", h.getByBarcode)  // GET    /api/products/barcode/{code}
		r.Get("/{id}", h.get)                     // GET    /api/products/{id}
		r.Put("/{id}", h.update)                  // PUT    /api/products/{id}
		r.Delete("/{id}", h.delete)               // DELETE /api/products/{id}
		r.Put("/{id}/category", h.updateCategory) // PUT    /api/products/{id}/category
		r.Put("/{id}/stock", h.addStock)          // PUT    /api/products/{id}/stock
		r.Put("/{id}/image", h.updateImage)       // PUT    /api/products/{id}/image
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "products": products})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "product": p})
}

func (h *Handler) getByBarcode(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProductByBarcode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "product": p})
}

// create accepts either a JSON body or a multipart form with an optional
// image file.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	var image io.Reader
	var imageName string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			respondBadRequest(w, err)
			return
		}
		req.Name = r.FormValue("name")
		req.Category = r.FormValue("category")
		req.Barcode = r.FormValue("barcode")
		if v := r.FormValue("price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				respondBadRequest(w, errors.New("price must be a number"))
				return
			}
			req.Price = price
		}
		if v := r.FormValue("stock"); v != "" {
			stock, err := strconv.Atoi(v)
			if err != nil {
				respondBadRequest(w, errors.New("stock must be an integer"))
				return
			}
			req.Stock = stock
		}
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			image = file
			imageName = header.Filename
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondBadRequest(w, err)
			return
		}
	}

	p, err := h.service.CreateProduct(r.Context(), req, image, imageName)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]interface{}{"success": true, "id": p.ID})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if _, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req.Category); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) addStock(w http.ResponseWriter, r *http.Request) {
	var req AddStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := h.service.AddStock(r.Context(), chi.URLParam(r, "id"), req.Amount); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) updateImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondBadRequest(w, err)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondBadRequest(w, errors.New("image file is required"))
		return
	}
	defer file.Close()

	url, err := h.service.UpdateImage(r.Context(), chi.URLParam(r, "id"), file, header.Filename)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true, "newImage": url})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"success": true})
}

func respondBadRequest(w http.ResponseWriter, err error) {
	respond(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": err.Error()})
}

func respondError(w http.ResponseWriter, err error) {
	var insufficient *InsufficientStockError
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidAmount):
		respondBadRequest(w, err)
	case errors.Is(err, ErrNotFound):
		respond(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": err.Error()})
	case errors.Is(err, ErrDuplicateBarcode), errors.As(err, &insufficient):
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
