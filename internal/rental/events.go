package rental

import (
	"encoding/json"
	"time"
)

const (
	EventQuotationCreated = "QuotationCreated"
	EventOrderConfirmed   = "OrderConfirmed"
	EventCapacityRejected = "CapacityRejected"
	EventOrderPickedUp    = "OrderPickedUp"
	EventOrderReturned    = "OrderReturned"
	EventOrderCancelled   = "OrderCancelled"
	EventPaymentRecorded  = "PaymentRecorded"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "rental-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type OrderStatusPayload struct {
	OrderID       string        `json:"order_id"`
	OrderNumber   string        `json:"order_number"`
	CustomerID    string        `json:"customer_id"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
	LateFeeCents  int64         `json:"late_fee_cents,omitempty"`
}

type CapacityRejectedPayload struct {
	OrderID   string `json:"order_id"`
	Reason    string `json:"reason"` // e.g., CAPACITY_EXCEEDED
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

type PaymentRecordedPayload struct {
	OrderID       string        `json:"order_id"`
	AmountCents   int64         `json:"amount_cents"`
	Method        string        `json:"method"`
	TransactionID string        `json:"transaction_id"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}
