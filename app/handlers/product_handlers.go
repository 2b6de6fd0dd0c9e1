package handlers

import (
	"net/http"
	"strings"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/Rakhulsr/e-agri/app/repositories"
	"github.com/Rakhulsr/e-agri/app/services"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	render   *render.Render
	products *services.ProductService
}

func NewProductHandler(r *render.Render, products *services.ProductService) *ProductHandler {
	return &ProductHandler{
		render:   r,
		products: products,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.ProductFilter{
		CategoryID:  strings.TrimSpace(query.Get("category_id")),
		Search:      query.Get("search"),
		OrganicOnly: isTruthy(query.Get("is_organic")),
	}

	if raw := strings.TrimSpace(query.Get("max_price")); raw != "" {
		maxPrice, err := decimal.NewFromString(raw)
		if err != nil {
			helpers.Fail(h.render, w, http.StatusBadRequest, "Invalid max_price", map[string]string{"max_price": "Max price must be a number"})
			return
		}
		filter.MaxPrice = &maxPrice
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *ProductHandler) DealerProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.DealerProducts(r.Context(), helpers.IdentityFrom(r.Context()))
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "Dealer products retrieved successfully", products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.ProductInput
	if err := helpers.DecodeJSON(r, &input); err != nil {
		helpers.Fail(h.render, w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	productID, err := h.products.Create(r.Context(), helpers.IdentityFrom(r.Context()), input)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	helpers.Success(h.render, w, http.StatusCreated, "Product created successfully", map[string]string{"product_id": productID})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.ProductInput
	if err := helpers.DecodeJSON(r, &input); err != nil {
		helpers.Fail(h.render, w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.products.Update(r.Context(), helpers.IdentityFrom(r.Context()), mux.Vars(r)["id"], input); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "Product updated successfully", nil)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), helpers.IdentityFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "Product deleted successfully", nil)
}

type decrementStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

func (h *ProductHandler) DecrementStock(w http.ResponseWriter, r *http.Request) {
	var input decrementStockRequest
	if err := helpers.DecodeJSON(r, &input); err != nil {
		helpers.Fail(h.render, w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.products.DecrementStock(r.Context(), helpers.IdentityFrom(r.Context()), id, input.Quantity); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "Stock updated successfully", map[string]string{"product_id": id})
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
