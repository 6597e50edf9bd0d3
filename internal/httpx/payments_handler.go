package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aprakasa/go-rental-orders/internal/auth"
	"github.com/aprakasa/go-rental-orders/internal/booking"
	"github.com/aprakasa/go-rental-orders/internal/gateway"
)

// PaymentsHandler fronts the payment gateway collaborator. The gateway is
// consulted only after confirm-level checks; it never touches capacity.
type PaymentsHandler struct {
	Svc     *booking.Service
	Gateway *gateway.Client
}

type CheckoutReq struct {
	OrderID  string `json:"order_id"`
	Currency string `json:"currency,omitempty"`
}

type VerifyReq struct {
	OrderID        string `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

func (h *PaymentsHandler) Register(r *chi.Mux, authn auth.Authenticator) {
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(authn))
		r.Post("/payments/checkout", h.checkout)
		r.Post("/payments/verify", h.verify)
	})
}

// checkout registers the order's outstanding balance with the gateway.
func (h *PaymentsHandler) checkout(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req CheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.Svc.GetOrder(ctx, p, req.OrderID)
	if err != nil {
		writeErr(w, err)
		return
	}
	outstanding := order.TotalAmountCents + order.LateFeeCents - order.PaidCents()
	if outstanding <= 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "nothing to pay"})
		return
	}
	gw, err := h.Gateway.CreateOrder(ctx, outstanding, req.Currency, order.OrderNumber)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, gw)
}

// verify checks the gateway signature and records the payment on success.
func (h *PaymentsHandler) verify(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
		return
	}
	var req VerifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if !h.Gateway.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid signature"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Svc.GetOrder(ctx, p, req.OrderID)
	if err != nil {
		writeErr(w, err)
		return
	}
	outstanding := order.TotalAmountCents + order.LateFeeCents - order.PaidCents()
	if outstanding <= 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "nothing to pay"})
		return
	}
	updated, err := h.Svc.AddPayment(ctx, p, req.OrderID, outstanding, "gateway", req.PaymentID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
