package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/aprakasa/go-rental-orders/internal/kafka"
	"github.com/aprakasa/go-rental-orders/internal/redisx"
	"github.com/aprakasa/go-rental-orders/internal/rental"
)

// Service keeps the redis order-status cache in step with the lifecycle
// events the API publishes. The cache is a read-side convenience only;
// capacity decisions never consult it.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

var statusEvents = map[string]bool{
	rental.EventQuotationCreated: true,
	rental.EventOrderConfirmed:   true,
	rental.EventOrderPickedUp:    true,
	rental.EventOrderReturned:    true,
	rental.EventOrderCancelled:   true,
	rental.EventPaymentRecorded:  true,
}

// HandleOrderEvent: dipasang sebagai handler consumer.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env rental.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if !statusEvents[env.EventType] {
		return nil
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	if env.EventType == rental.EventPaymentRecorded {
		p, err := kafkax.UnwrapPayload[rental.PaymentRecordedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.patchPaymentStatus(ctx, p.OrderID, p.PaymentStatus)
	}

	p, err := kafkax.UnwrapPayload[rental.OrderStatusPayload](env.Payload)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
	body := fmt.Sprintf(`{"status":%q,"payment_status":%q}`, p.Status, p.PaymentStatus)
	if err := s.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err(); err != nil {
		log.Printf("status cache set order=%s: %v", p.OrderID, err)
		return err
	}
	return nil
}

func (s *Service) patchPaymentStatus(ctx context.Context, orderID string, ps rental.PaymentStatus) error {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	raw, err := s.Redis.Get(ctx, key).Result()
	if err != nil {
		return nil // nothing cached, GET path will repopulate from DB
	}
	var cached struct {
		Status        rental.Status        `json:"status"`
		PaymentStatus rental.PaymentStatus `json:"payment_status"`
	}
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil
	}
	cached.PaymentStatus = ps
	body := fmt.Sprintf(`{"status":%q,"payment_status":%q}`, cached.Status, cached.PaymentStatus)
	return s.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}
