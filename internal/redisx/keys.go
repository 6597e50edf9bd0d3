package redisx

import "time"

const (
	// Idempotency create quotation: idem:rental:quotation:{external_ref} -> order_id
	KeyIdemQuotation = "idem:rental:quotation:%s"

	// Cache status order: rental:order:status:{order_id} -> {"status": "...", "payment_status": "..."}
	KeyOrderStatus = "rental:order:status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
