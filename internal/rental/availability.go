package rental

import (
	"sort"
	"time"
)

// Availability is always derived from the booking ledger at read time. There
// is no stored counter to drift from the truth: the functions here take the
// capacity-consuming line items for a product and compute.

// BookedQuantity sums quantities of items overlapping [start,end).
func BookedQuantity(items []LineItem, start, end time.Time) int {
	booked := 0
	for _, it := range items {
		if Overlaps(it.StartDate, it.EndDate, start, end) {
			booked += it.Quantity
		}
	}
	return booked
}

// AvailableQuantity is the number of free units over [start,end), floored
// at zero.
func AvailableQuantity(totalQuantity int, items []LineItem, start, end time.Time) int {
	free := totalQuantity - BookedQuantity(items, start, end)
	if free < 0 {
		free = 0
	}
	return free
}

// NextAvailableAt is the earliest instant past every capacity-consuming item,
// or now when nothing is booked.
func NextAvailableAt(items []LineItem, now time.Time) time.Time {
	next := now
	for _, it := range items {
		if it.EndDate.After(next) {
			next = it.EndDate
		}
	}
	return next
}

// Slot is a maximal interval with no capacity-consuming item.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end,omitempty"` // zero = open-ended
}

// FreeSlots walks the items sorted by start date and collects the gaps
// between busy intervals, clipped to [horizonStart, horizonEnd). A zero
// horizonEnd leaves the trailing slot open-ended. Recomputed fresh per call.
func FreeSlots(items []LineItem, horizonStart, horizonEnd time.Time) []Slot {
	sorted := make([]LineItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartDate.Before(sorted[j].StartDate) })

	var slots []Slot
	cursor := horizonStart
	for _, it := range sorted {
		if !horizonEnd.IsZero() && !it.StartDate.Before(horizonEnd) {
			break
		}
		if it.StartDate.After(cursor) {
			end := it.StartDate
			if !horizonEnd.IsZero() && end.After(horizonEnd) {
				end = horizonEnd
			}
			slots = append(slots, Slot{Start: cursor, End: end})
		}
		// overlapping items extend the busy interval, never shrink it
		if it.EndDate.After(cursor) {
			cursor = it.EndDate
		}
	}
	if horizonEnd.IsZero() {
		slots = append(slots, Slot{Start: cursor})
	} else if cursor.Before(horizonEnd) {
		slots = append(slots, Slot{Start: cursor, End: horizonEnd})
	}
	return slots
}
