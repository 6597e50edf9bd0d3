package rental

import (
	"math"
	"time"
)

// Overlaps reports whether the half-open ranges [aStart,aEnd) and
// [bStart,bEnd) share at least one instant. Touching boundaries do not
// overlap: an item returned at 09:00 is free for a booking starting at 09:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

var unitHours = map[RentalUnit]float64{
	UnitHour:  1,
	UnitDay:   24,
	UnitWeek:  24 * 7,
	UnitMonth: 24 * 30,
}

// DurationUnits is the billable duration of [start,end) in the given rental
// unit: elapsed hours divided by the unit's hour count, rounded up, never
// below 1. Pricing only; availability never uses it.
func DurationUnits(start, end time.Time, unit RentalUnit) int64 {
	h, ok := unitHours[unit]
	if !ok {
		h = unitHours[UnitDay]
	}
	units := int64(math.Ceil(end.Sub(start).Hours() / h))
	if units < 1 {
		units = 1
	}
	return units
}
