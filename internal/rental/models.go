package rental

import (
	"fmt"
	"math/rand"
	"time"
)

type RentalUnit string

const (
	UnitHour  RentalUnit = "hour"
	UnitDay   RentalUnit = "day"
	UnitWeek  RentalUnit = "week"
	UnitMonth RentalUnit = "month"
)

type Product struct {
	ID             string
	Name           string
	Category       string
	RentalUnit     RentalUnit
	BasePriceCents int64
	TotalQuantity  int // physical units owned; mutated only by admin update
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PriceRule is one active pricelist entry for a product. A positive
// PriceCents replaces the product base price before the discount applies.
type PriceRule struct {
	ProductID     string
	PriceCents    int64
	DiscountType  DiscountType
	DiscountValue int64 // percent for percentage rules, cents for fixed
}

// LineItem is owned by its parent Order and never persisted on its own.
type LineItem struct {
	ProductID         string
	Quantity          int
	StartDate         time.Time
	EndDate           time.Time
	PricePerUnitCents int64
	TotalPriceCents   int64
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

type Payment struct {
	OrderID       string
	AmountCents   int64
	Method        string
	TransactionID string
	PaidAt        time.Time
}

type Order struct {
	ID               string
	OrderNumber      string
	CustomerID       string
	Status           Status
	Items            []LineItem
	TotalAmountCents int64
	DepositCents     int64
	LateFeeCents     int64
	PaymentStatus    PaymentStatus
	Payments         []Payment
	Notes            string
	PickupDate       *time.Time
	ReturnDate       *time.Time
	ActualReturnDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ExpectedReturn is the recorded return date, falling back to the first
// item's end date.
func (o *Order) ExpectedReturn() time.Time {
	if o.ReturnDate != nil {
		return *o.ReturnDate
	}
	if len(o.Items) > 0 {
		return o.Items[0].EndDate
	}
	return time.Time{}
}

// PaidCents sums recorded payments.
func (o *Order) PaidCents() int64 {
	var paid int64
	for _, p := range o.Payments {
		paid += p.AmountCents
	}
	return paid
}

// NewOrderNumber generates a human-readable order number, e.g. ORD-483920-017.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%06d-%03d", now.UnixMilli()%1_000_000, rand.Intn(1000))
}
