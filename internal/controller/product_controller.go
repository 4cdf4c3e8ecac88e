package controller

import (
	"net/http"

	"github.com/cassiomorais/checkout/internal/application/checkout"
	"github.com/go-chi/chi/v5"
)

// ProductController handles catalog read requests.
type ProductController struct {
	listProducts *checkout.ListProductsUseCase
}

// NewProductController creates a new ProductController.
func NewProductController(listProducts *checkout.ListProductsUseCase) *ProductController {
	return &ProductController{listProducts: listProducts}
}

// List handles GET /api/v1/products
func (h *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.listProducts.Execute(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

// Get handles GET /api/v1/products/{id}
func (h *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	p, err := h.listProducts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromProduct(p))
}
