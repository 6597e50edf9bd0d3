package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableQuantityNoBookings(t *testing.T) {
	assert.Equal(t, 5, AvailableQuantity(5, nil, d(1), d(5)))
}

func TestAvailableQuantityOverlap(t *testing.T) {
	// one confirmed item: qty 3 over [Jan 1, Jan 5)
	items := []LineItem{{ProductID: "p1", Quantity: 3, StartDate: d(1), EndDate: d(5)}}

	assert.Equal(t, 2, AvailableQuantity(5, items, d(3), d(7)), "overlapping range")
	assert.Equal(t, 5, AvailableQuantity(5, items, d(5), d(7)), "touching boundary frees the units")
}

func TestAvailableQuantityFloorsAtZero(t *testing.T) {
	items := []LineItem{
		{Quantity: 4, StartDate: d(1), EndDate: d(10)},
		{Quantity: 4, StartDate: d(2), EndDate: d(8)},
	}
	assert.Equal(t, 0, AvailableQuantity(5, items, d(3), d(6)))
}

func TestAvailabilityReadIsIdempotent(t *testing.T) {
	items := []LineItem{{Quantity: 2, StartDate: d(2), EndDate: d(6)}}
	first := AvailableQuantity(5, items, d(1), d(5))
	second := AvailableQuantity(5, items, d(1), d(5))
	assert.Equal(t, first, second)
}

func TestNextAvailableAt(t *testing.T) {
	now := d(1)
	assert.Equal(t, now, NextAvailableAt(nil, now), "nothing booked")

	items := []LineItem{
		{StartDate: d(2), EndDate: d(6)},
		{StartDate: d(4), EndDate: d(9)},
	}
	assert.Equal(t, d(9), NextAvailableAt(items, now))
}

func TestFreeSlotsGaps(t *testing.T) {
	items := []LineItem{
		{StartDate: d(3), EndDate: d(5)},
		{StartDate: d(8), EndDate: d(10)},
	}
	slots := FreeSlots(items, d(1), d(14))
	require.Len(t, slots, 3)
	assert.Equal(t, Slot{Start: d(1), End: d(3)}, slots[0])
	assert.Equal(t, Slot{Start: d(5), End: d(8)}, slots[1])
	assert.Equal(t, Slot{Start: d(10), End: d(14)}, slots[2])
}

func TestFreeSlotsCoalescesOverlappingItems(t *testing.T) {
	items := []LineItem{
		{StartDate: d(2), EndDate: d(6)},
		{StartDate: d(4), EndDate: d(8)},
		{StartDate: d(5), EndDate: d(7)}, // nested, must not shrink the busy span
	}
	slots := FreeSlots(items, d(1), d(10))
	require.Len(t, slots, 2)
	assert.Equal(t, Slot{Start: d(1), End: d(2)}, slots[0])
	assert.Equal(t, Slot{Start: d(8), End: d(10)}, slots[1])
}

func TestFreeSlotsOpenEndedHorizon(t *testing.T) {
	items := []LineItem{{StartDate: d(3), EndDate: d(5)}}
	slots := FreeSlots(items, d(1), time.Time{})
	require.Len(t, slots, 2)
	assert.Equal(t, Slot{Start: d(1), End: d(3)}, slots[0])
	assert.Equal(t, d(5), slots[1].Start)
	assert.True(t, slots[1].End.IsZero())
}

func TestFreeSlotsNoBookings(t *testing.T) {
	slots := FreeSlots(nil, d(1), d(5))
	require.Len(t, slots, 1)
	assert.Equal(t, Slot{Start: d(1), End: d(5)}, slots[0])
}

func TestFreeSlotsFullyBooked(t *testing.T) {
	items := []LineItem{{StartDate: d(1), EndDate: d(10)}}
	assert.Empty(t, FreeSlots(items, d(1), d(10)))
}
