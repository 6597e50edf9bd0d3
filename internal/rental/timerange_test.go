package rental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(day int) time.Time {
	return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"disjoint", d(1), d(3), d(5), d(7), false},
		{"contained", d(1), d(10), d(3), d(5), true},
		{"partial", d(1), d(5), d(3), d(7), true},
		{"touching boundary does not overlap", d(1), d(5), d(5), d(7), false},
		{"identical", d(1), d(5), d(1), d(5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// symmetry
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestOverlapsDegenerateRange(t *testing.T) {
	// a zero-length range overlaps nothing
	assert.False(t, Overlaps(d(3), d(3), d(1), d(5)))
	assert.False(t, Overlaps(d(1), d(5), d(3), d(3)))
}

func TestDurationUnits(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		end  time.Time
		unit RentalUnit
		want int64
	}{
		{"exact day", start.Add(24 * time.Hour), UnitDay, 1},
		{"partial day rounds up", start.Add(25 * time.Hour), UnitDay, 2},
		{"four days", start.Add(96 * time.Hour), UnitDay, 4},
		{"exact hour", start.Add(time.Hour), UnitHour, 1},
		{"90 minutes rounds up", start.Add(90 * time.Minute), UnitHour, 2},
		{"week", start.Add(8 * 24 * time.Hour), UnitWeek, 2},
		{"month", start.Add(30 * 24 * time.Hour), UnitMonth, 1},
		{"minimum one unit", start.Add(time.Minute), UnitDay, 1},
		{"zero elapsed", start, UnitDay, 1},
		{"unknown unit falls back to day", start.Add(48 * time.Hour), RentalUnit("fortnight"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationUnits(start, tt.end, tt.unit))
		})
	}
}
