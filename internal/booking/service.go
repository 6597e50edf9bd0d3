package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/aprakasa/go-rental-orders/internal/auth"
	kafkax "github.com/aprakasa/go-rental-orders/internal/kafka"
	"github.com/aprakasa/go-rental-orders/internal/redisx"
	"github.com/aprakasa/go-rental-orders/internal/rental"
)

// Repository is the storage collaborator. The confirm path must be atomic at
// this boundary: ConfirmOrder runs scan + decide + write as one transaction.
type Repository interface {
	GetProduct(ctx context.Context, id string) (rental.Product, error)
	ActivePriceRule(ctx context.Context, productID string) (*rental.PriceRule, error)

	CreateOrder(ctx context.Context, o rental.Order) (rental.Order, error)
	GetOrder(ctx context.Context, id string) (rental.Order, error)
	ListCustomerOrders(ctx context.Context, customerID string) ([]rental.Order, error)

	ConfirmOrder(ctx context.Context, orderID string) (rental.Order, error)
	SetPickedUp(ctx context.Context, orderID string, at time.Time) (bool, error)
	SetReturned(ctx context.Context, orderID string, at time.Time, lateFeeCents int64) (bool, error)
	CancelIfActive(ctx context.Context, orderID string) (bool, error)
	AddPayment(ctx context.Context, orderID string, p rental.Payment, newStatus rental.PaymentStatus) error

	Available(ctx context.Context, productID string, start, end time.Time) (available, total int, err error)
	CapacityItems(ctx context.Context, productID string) ([]rental.LineItem, error)
}

// Service is the booking transition manager: it owns the order lifecycle
// quotation -> confirmed -> picked_up -> returned (or -> cancelled) and the
// availability reads around it.
type Service struct {
	Repo              Repository
	Redis             *redis.Client    // status cache + quotation idempotency; best effort
	Producer          *kafkax.Producer // rental.order.status
	ProducerReject    *kafkax.Producer // rental.capacity.rejected
	ServiceName       string
	LateFeeDailyCents int64
	Now               func() time.Time // injected clock; defaults to UTC now
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

type ItemInput struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return &rental.ValidationError{Field: "items", Msg: "at least one item required"}
	}
	for _, it := range items {
		if it.ProductID == "" {
			return &rental.ValidationError{Field: "product_id", Msg: "required"}
		}
		if it.Quantity <= 0 {
			return &rental.ValidationError{Field: "quantity", Msg: "must be positive"}
		}
		if !it.StartDate.Before(it.EndDate) {
			return &rental.ValidationError{Field: "end_date", Msg: "must be after start_date"}
		}
	}
	return nil
}

// CreateQuotation prices the requested items and records a non-binding order.
// No capacity is checked or reserved here; everything is re-validated at
// confirm time. externalRef, when set, makes the call idempotent.
func (s *Service) CreateQuotation(ctx context.Context, p auth.Principal, items []ItemInput, notes, externalRef string) (rental.Order, error) {
	if err := validateItems(items); err != nil {
		return rental.Order{}, err
	}

	// fast-path idempotency via Redis; DB tetap jadi kebenaran
	if externalRef != "" && s.Redis != nil {
		idemKey := fmt.Sprintf(redisx.KeyIdemQuotation, externalRef)
		if id, err := s.Redis.Get(ctx, idemKey).Result(); err == nil && id != "" {
			if existing, err := s.Repo.GetOrder(ctx, id); err == nil {
				return existing, nil
			}
		}
	}

	lines := make([]rental.LineItem, 0, len(items))
	for _, it := range items {
		product, err := s.Repo.GetProduct(ctx, it.ProductID)
		if errors.Is(err, rental.ErrNotFound) {
			return rental.Order{}, &rental.ValidationError{Field: "product_id", Msg: "unknown product " + it.ProductID}
		}
		if err != nil {
			return rental.Order{}, err
		}
		if !product.IsActive {
			return rental.Order{}, &rental.ValidationError{Field: "product_id", Msg: "product not bookable: " + it.ProductID}
		}
		rule, err := s.Repo.ActivePriceRule(ctx, it.ProductID)
		if err != nil {
			return rental.Order{}, err
		}
		lp := rental.PriceLine(product.BasePriceCents, product.RentalUnit, it.StartDate, it.EndDate, rule)
		lines = append(lines, rental.LineItem{
			ProductID:         it.ProductID,
			Quantity:          it.Quantity,
			StartDate:         it.StartDate,
			EndDate:           it.EndDate,
			PricePerUnitCents: lp.PricePerUnitCents,
			TotalPriceCents:   lp.TotalPriceCents * int64(it.Quantity),
		})
	}

	total, deposit := rental.OrderTotals(lines)
	now := s.now()
	order := rental.Order{
		ID:               uuid.NewString(),
		OrderNumber:      rental.NewOrderNumber(now),
		CustomerID:       p.UserID,
		Status:           rental.StatusQuotation,
		Items:            lines,
		TotalAmountCents: total,
		DepositCents:     deposit,
		PaymentStatus:    rental.PaymentPending,
		Notes:            notes,
	}
	created, err := s.Repo.CreateOrder(ctx, order)
	if err != nil {
		return rental.Order{}, err
	}

	if externalRef != "" && s.Redis != nil {
		idemKey := fmt.Sprintf(redisx.KeyIdemQuotation, externalRef)
		_ = s.Redis.Set(ctx, idemKey, created.ID, redisx.TTLIdempotency).Err()
	}
	s.cacheStatus(ctx, created)
	s.publishStatus(ctx, rental.EventQuotationCreated, created)
	return created, nil
}

// Confirm re-runs the availability check against all other capacity-consuming
// orders and flips the status atomically with it. A capacity rejection leaves
// the order in quotation and is surfaced, never retried.
func (s *Service) Confirm(ctx context.Context, p auth.Principal, orderID string) (rental.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	if !p.CanAccessOrder(order.CustomerID) {
		return rental.Order{}, rental.ErrForbidden
	}

	confirmed, err := s.Repo.ConfirmOrder(ctx, orderID)
	var capErr *rental.CapacityError
	if errors.As(err, &capErr) {
		s.publishRejected(ctx, order, capErr)
		return rental.Order{}, err
	}
	if err != nil {
		return rental.Order{}, err
	}

	s.cacheStatus(ctx, confirmed)
	s.publishStatus(ctx, rental.EventOrderConfirmed, confirmed)
	return confirmed, nil
}

type Availability struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

// CheckAvailability is a lock-free read over the ledger.
func (s *Service) CheckAvailability(ctx context.Context, productID string, start, end time.Time) (Availability, error) {
	if !start.Before(end) {
		return Availability{}, &rental.ValidationError{Field: "end_date", Msg: "must be after start_date"}
	}
	available, total, err := s.Repo.Available(ctx, productID, start, end)
	if err != nil {
		return Availability{}, err
	}
	return Availability{Available: available, Total: total}, nil
}

// NextAvailable is the earliest instant past every capacity-consuming item.
func (s *Service) NextAvailable(ctx context.Context, productID string) (time.Time, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return time.Time{}, err
	}
	items, err := s.Repo.CapacityItems(ctx, productID)
	if err != nil {
		return time.Time{}, err
	}
	return rental.NextAvailableAt(items, s.now()), nil
}

// FreeSlots lists booking-free gaps within the horizon, recomputed per call.
func (s *Service) FreeSlots(ctx context.Context, productID string, horizonStart, horizonEnd time.Time) ([]rental.Slot, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	if !horizonEnd.IsZero() && !horizonStart.Before(horizonEnd) {
		return nil, &rental.ValidationError{Field: "horizon", Msg: "end must be after start"}
	}
	items, err := s.Repo.CapacityItems(ctx, productID)
	if err != nil {
		return nil, err
	}
	return rental.FreeSlots(items, horizonStart, horizonEnd), nil
}

func (s *Service) MarkPickup(ctx context.Context, p auth.Principal, orderID string) (rental.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	if !p.CanAccessOrder(order.CustomerID) {
		return rental.Order{}, rental.ErrForbidden
	}
	ok, err := s.Repo.SetPickedUp(ctx, orderID, s.now())
	if err != nil {
		return rental.Order{}, err
	}
	if !ok {
		return rental.Order{}, &rental.StateConflictError{OrderID: orderID, Status: order.Status, Op: "pickup"}
	}
	updated, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	s.cacheStatus(ctx, updated)
	s.publishStatus(ctx, rental.EventOrderPickedUp, updated)
	return updated, nil
}

// MarkReturn closes out a picked-up order. Returned items stop counting as
// capacity-consuming, so the range frees up without any restock step.
func (s *Service) MarkReturn(ctx context.Context, p auth.Principal, orderID string) (rental.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	if !p.CanAccessOrder(order.CustomerID) {
		return rental.Order{}, rental.ErrForbidden
	}
	if order.Status != rental.StatusPickedUp {
		return rental.Order{}, &rental.StateConflictError{OrderID: orderID, Status: order.Status, Op: "return"}
	}

	now := s.now()
	fee := rental.LateFeeCents(order.ExpectedReturn(), now, s.LateFeeDailyCents)
	ok, err := s.Repo.SetReturned(ctx, orderID, now, fee)
	if err != nil {
		return rental.Order{}, err
	}
	if !ok {
		return rental.Order{}, &rental.StateConflictError{OrderID: orderID, Status: order.Status, Op: "return"}
	}
	updated, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	s.cacheStatus(ctx, updated)
	s.publishStatus(ctx, rental.EventOrderReturned, updated)
	return updated, nil
}

func (s *Service) Cancel(ctx context.Context, p auth.Principal, orderID string) (rental.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	if !p.CanAccessOrder(order.CustomerID) {
		return rental.Order{}, rental.ErrForbidden
	}
	if order.Status.Terminal() {
		return rental.Order{}, &rental.StateConflictError{OrderID: orderID, Status: order.Status, Op: "cancel"}
	}
	ok, err := s.Repo.CancelIfActive(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	if !ok {
		return rental.Order{}, &rental.StateConflictError{OrderID: orderID, Status: order.Status, Op: "cancel"}
	}
	updated, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	s.cacheStatus(ctx, updated)
	s.publishStatus(ctx, rental.EventOrderCancelled, updated)
	return updated, nil
}

// AddPayment records a payment and recomputes the payment status against
// total + late fees.
func (s *Service) AddPayment(ctx context.Context, p auth.Principal, orderID string, amountCents int64, method, transactionID string) (rental.Order, error) {
	if amountCents <= 0 {
		return rental.Order{}, &rental.ValidationError{Field: "amount", Msg: "must be positive"}
	}
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	if !p.CanAccessOrder(order.CustomerID) {
		return rental.Order{}, rental.ErrForbidden
	}

	paid := order.PaidCents() + amountCents
	newStatus := rental.PaymentPending
	switch {
	case paid >= order.TotalAmountCents+order.LateFeeCents:
		newStatus = rental.PaymentPaid
	case paid > 0:
		newStatus = rental.PaymentPartial
	}

	payment := rental.Payment{
		OrderID:       orderID,
		AmountCents:   amountCents,
		Method:        method,
		TransactionID: transactionID,
		PaidAt:        s.now(),
	}
	if err := s.Repo.AddPayment(ctx, orderID, payment, newStatus); err != nil {
		return rental.Order{}, err
	}
	updated, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	s.cacheStatus(ctx, updated)
	s.publishPayment(ctx, updated, payment)
	return updated, nil
}

func (s *Service) GetOrder(ctx context.Context, p auth.Principal, orderID string) (rental.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return rental.Order{}, err
	}
	if !p.CanAccessOrder(order.CustomerID) {
		return rental.Order{}, rental.ErrForbidden
	}
	return order, nil
}

func (s *Service) ListCustomerOrders(ctx context.Context, p auth.Principal, customerID string) ([]rental.Order, error) {
	if !p.CanAccessOrder(customerID) {
		return nil, rental.ErrForbidden
	}
	return s.Repo.ListCustomerOrders(ctx, customerID)
}

// ---- cache & event plumbing ----

func (s *Service) cacheStatus(ctx context.Context, o rental.Order) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	body := fmt.Sprintf(`{"status":%q,"payment_status":%q}`, o.Status, o.PaymentStatus)
	_ = s.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}

func (s *Service) publishStatus(ctx context.Context, eventType string, o rental.Order) {
	if s.Producer == nil {
		return
	}
	ev := s.envelope(eventType, o.ID)
	ev.Payload = kafkax.MustMarshal(rental.OrderStatusPayload{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		LateFeeCents:  o.LateFeeCents,
	})
	s.Producer.Publish(rental.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) publishRejected(ctx context.Context, o rental.Order, capErr *rental.CapacityError) {
	if s.ProducerReject == nil {
		return
	}
	ev := s.envelope(rental.EventCapacityRejected, o.ID)
	ev.Payload = kafkax.MustMarshal(rental.CapacityRejectedPayload{
		OrderID:   o.ID,
		Reason:    "CAPACITY_EXCEEDED",
		ProductID: capErr.ProductID,
		Requested: capErr.Requested,
		Available: capErr.Available,
	})
	s.ProducerReject.Publish(rental.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(rental.EventCapacityRejected)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) publishPayment(ctx context.Context, o rental.Order, p rental.Payment) {
	if s.Producer == nil {
		return
	}
	ev := s.envelope(rental.EventPaymentRecorded, o.ID)
	ev.Payload = kafkax.MustMarshal(rental.PaymentRecordedPayload{
		OrderID:       o.ID,
		AmountCents:   p.AmountCents,
		Method:        p.Method,
		TransactionID: p.TransactionID,
		PaymentStatus: o.PaymentStatus,
	})
	s.Producer.Publish(rental.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(rental.EventPaymentRecorded)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) envelope(eventType, orderID string) rental.Envelope {
	return rental.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: orderID,
	}
}
