package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriceLineNoRule(t *testing.T) {
	start := d(1)
	end := d(4) // 3 days
	lp := PriceLine(1000, UnitDay, start, end, nil)
	assert.Equal(t, int64(3), lp.DurationUnits)
	assert.Equal(t, int64(1000), lp.PricePerUnitCents)
	assert.Equal(t, int64(3000), lp.TotalPriceCents)
}

func TestPriceLinePercentageDiscount(t *testing.T) {
	rule := &PriceRule{ProductID: "p1", DiscountType: DiscountPercentage, DiscountValue: 10}
	lp := PriceLine(1000, UnitDay, d(1), d(4), rule)
	assert.Equal(t, int64(2700), lp.TotalPriceCents)
}

func TestPriceLineFixedDiscount(t *testing.T) {
	rule := &PriceRule{ProductID: "p1", DiscountType: DiscountFixed, DiscountValue: 500}
	lp := PriceLine(1000, UnitDay, d(1), d(4), rule)
	assert.Equal(t, int64(2500), lp.TotalPriceCents)
}

func TestPriceLineDiscountFloorsAtZero(t *testing.T) {
	rule := &PriceRule{ProductID: "p1", DiscountType: DiscountFixed, DiscountValue: 99999}
	lp := PriceLine(1000, UnitDay, d(1), d(2), rule)
	assert.Equal(t, int64(0), lp.TotalPriceCents)
}

func TestPriceLineRuleOverridesUnitPrice(t *testing.T) {
	rule := &PriceRule{ProductID: "p1", PriceCents: 800, DiscountType: DiscountFixed}
	lp := PriceLine(1000, UnitDay, d(1), d(3), rule)
	assert.Equal(t, int64(800), lp.PricePerUnitCents)
	assert.Equal(t, int64(1600), lp.TotalPriceCents)
}

func TestOrderTotals(t *testing.T) {
	items := []LineItem{
		{TotalPriceCents: 3000},
		{TotalPriceCents: 1250},
	}
	total, deposit := OrderTotals(items)
	assert.Equal(t, int64(4250), total)
	assert.Equal(t, int64(850), deposit) // 20%
}

func TestOrderTotalsEmpty(t *testing.T) {
	total, deposit := OrderTotals(nil)
	assert.Zero(t, total)
	assert.Zero(t, deposit)
}

func TestLateFeeCents(t *testing.T) {
	expected := d(10)
	tests := []struct {
		name   string
		actual time.Time
		want   int64
	}{
		{"on time", expected, 0},
		{"early", d(8), 0},
		{"three days late", d(13), 300},
		{"partial day not charged", expected.Add(36 * time.Hour), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LateFeeCents(expected, tt.actual, 100))
		})
	}
}

func TestExpectedReturnFallsBackToFirstItem(t *testing.T) {
	o := Order{Items: []LineItem{{EndDate: d(5)}, {EndDate: d(9)}}}
	assert.Equal(t, d(5), o.ExpectedReturn())

	rd := d(7)
	o.ReturnDate = &rd
	assert.Equal(t, d(7), o.ExpectedReturn())
}
