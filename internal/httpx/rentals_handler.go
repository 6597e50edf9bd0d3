package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aprakasa/go-rental-orders/internal/auth"
	"github.com/aprakasa/go-rental-orders/internal/booking"
	"github.com/aprakasa/go-rental-orders/internal/rental"
)

type RentalsHandler struct {
	Svc *booking.Service
}

type CreateQuotationReq struct {
	Items       []booking.ItemInput `json:"items"`
	Notes       string              `json:"notes,omitempty"`
	ExternalRef string              `json:"external_ref,omitempty"`
}

type AddPaymentReq struct {
	AmountCents   int64  `json:"amount_cents"`
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id"`
}

func (h *RentalsHandler) Register(r *chi.Mux, authn auth.Authenticator) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(authn))
		r.Post("/rentals/quotations", h.createQuotation)
		r.Get("/rentals", h.listMine)
		r.Get("/rentals/{id}", h.getOrder)
		r.Post("/rentals/{id}/confirm", h.transition(h.Svc.Confirm))
		r.Post("/rentals/{id}/pickup", h.transition(h.Svc.MarkPickup))
		r.Post("/rentals/{id}/return", h.transition(h.Svc.MarkReturn))
		r.Post("/rentals/{id}/cancel", h.transition(h.Svc.Cancel))
		r.Post("/rentals/{id}/payments", h.addPayment)
	})

	// availability reads are public
	r.Get("/products/{id}/availability", h.checkAvailability)
	r.Get("/products/{id}/next-available", h.nextAvailable)
	r.Get("/products/{id}/free-slots", h.freeSlots)
}

func (h *RentalsHandler) createQuotation(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req CreateQuotationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Svc.CreateQuotation(ctx, p, req.Items, req.Notes, req.ExternalRef)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// transition wraps the lifecycle operations; they all share the same framing.
func (h *RentalsHandler) transition(op func(context.Context, auth.Principal, string) (rental.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			return
		}
		orderID := chi.URLParam(r, "id")
		if orderID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		order, err := op(ctx, p, orderID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func (h *RentalsHandler) addPayment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	orderID := chi.URLParam(r, "id")
	var req AddPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Svc.AddPayment(ctx, p, orderID, req.AmountCents, req.Method, req.TransactionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *RentalsHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Svc.GetOrder(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *RentalsHandler) listMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		customerID = p.UserID
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.Svc.ListCustomerOrders(ctx, p, customerID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func parseRange(r *http.Request) (start, end time.Time, err error) {
	q := r.URL.Query()
	start, err = time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		return
	}
	end, err = time.Parse(time.RFC3339, q.Get("end"))
	return
}

func (h *RentalsHandler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start and end must be RFC3339"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	avail, err := h.Svc.CheckAvailability(ctx, chi.URLParam(r, "id"), start, end)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

func (h *RentalsHandler) nextAvailable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	at, err := h.Svc.NextAvailable(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]time.Time{"next_available": at})
}

func (h *RentalsHandler) freeSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start must be RFC3339"})
		return
	}
	var end time.Time // zero = open-ended horizon
	if s := q.Get("end"); s != "" {
		end, err = time.Parse(time.RFC3339, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end must be RFC3339"})
			return
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	slots, err := h.Svc.FreeSlots(ctx, chi.URLParam(r, "id"), start, end)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}
