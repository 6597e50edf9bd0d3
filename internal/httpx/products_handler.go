package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aprakasa/go-rental-orders/internal/auth"
	"github.com/aprakasa/go-rental-orders/internal/rental"
)

type ProductsHandler struct {
	Repo *rental.Repo
}

type ProductReq struct {
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	RentalUnit     rental.RentalUnit `json:"rental_unit"`
	BasePriceCents int64             `json:"base_price_cents"`
	TotalQuantity  int               `json:"total_quantity"`
	IsActive       bool              `json:"is_active"`
}

func (h *ProductsHandler) Register(r *chi.Mux, authn auth.Authenticator) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(authn), RequireAdmin)
		r.Post("/products", h.create)
		r.Put("/products/{id}", h.update)
	})
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.ListActiveProducts(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) decode(r *http.Request) (ProductReq, error) {
	var req ProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

func validateProduct(req ProductReq) error {
	if req.Name == "" {
		return &rental.ValidationError{Field: "name", Msg: "required"}
	}
	if req.TotalQuantity < 0 {
		return &rental.ValidationError{Field: "total_quantity", Msg: "must be non-negative"}
	}
	if req.BasePriceCents < 0 {
		return &rental.ValidationError{Field: "base_price_cents", Msg: "must be non-negative"}
	}
	return nil
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validateProduct(req); err != nil {
		writeErr(w, err)
		return
	}
	if req.RentalUnit == "" {
		req.RentalUnit = rental.UnitDay
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p := rental.Product{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Category:       req.Category,
		RentalUnit:     req.RentalUnit,
		BasePriceCents: req.BasePriceCents,
		TotalQuantity:  req.TotalQuantity,
		IsActive:       req.IsActive,
	}
	if err := h.Repo.CreateProduct(ctx, p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validateProduct(req); err != nil {
		writeErr(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p := rental.Product{
		ID:             chi.URLParam(r, "id"),
		Name:           req.Name,
		Category:       req.Category,
		RentalUnit:     req.RentalUnit,
		BasePriceCents: req.BasePriceCents,
		TotalQuantity:  req.TotalQuantity,
		IsActive:       req.IsActive,
	}
	if err := h.Repo.UpdateProduct(ctx, p); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
