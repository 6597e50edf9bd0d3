package rental

import (
	"math"
	"time"
)

// Deposit policy: flat 20% of the order total.
const depositRate = 0.20

type LinePrice struct {
	DurationUnits     int64
	PricePerUnitCents int64
	TotalPriceCents   int64
}

// PriceLine prices one unit of a product over [start,end). A price rule, when
// present, overrides the per-unit price and may carry a discount. The caller
// multiplies by the line quantity.
func PriceLine(basePriceCents int64, unit RentalUnit, start, end time.Time, rule *PriceRule) LinePrice {
	duration := DurationUnits(start, end, unit)
	per := basePriceCents
	if rule != nil && rule.PriceCents > 0 {
		per = rule.PriceCents
	}
	total := per * duration
	if rule != nil {
		total = applyDiscount(total, rule.DiscountType, rule.DiscountValue)
	}
	return LinePrice{DurationUnits: duration, PricePerUnitCents: per, TotalPriceCents: total}
}

func applyDiscount(priceCents int64, typ DiscountType, value int64) int64 {
	if value <= 0 {
		return priceCents
	}
	var out int64
	switch typ {
	case DiscountPercentage:
		out = priceCents - priceCents*value/100
	default: // fixed
		out = priceCents - value
	}
	if out < 0 {
		out = 0
	}
	return out
}

// OrderTotals sums line totals and derives the deposit.
func OrderTotals(items []LineItem) (totalCents, depositCents int64) {
	for _, it := range items {
		totalCents += it.TotalPriceCents
	}
	depositCents = int64(math.Round(float64(totalCents) * depositRate))
	return totalCents, depositCents
}

// LateFeeCents charges the daily rate per full day past the expected return.
func LateFeeCents(expectedReturn, actualReturn time.Time, dailyRateCents int64) int64 {
	if !actualReturn.After(expectedReturn) {
		return 0
	}
	daysLate := int64(actualReturn.Sub(expectedReturn) / (24 * time.Hour))
	return daysLate * dailyRateCents
}
