package rental

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusQuotation, StatusConfirmed, true},
		{StatusQuotation, StatusCancelled, true},
		{StatusConfirmed, StatusPickedUp, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusPickedUp, StatusReturned, true},
		{StatusPickedUp, StatusCancelled, true},

		{StatusQuotation, StatusPickedUp, false},
		{StatusQuotation, StatusReturned, false},
		{StatusConfirmed, StatusReturned, false},
		{StatusReturned, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusReturned, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestConsumesCapacity(t *testing.T) {
	assert.True(t, ConsumesCapacity(StatusConfirmed))
	assert.True(t, ConsumesCapacity(StatusPickedUp))

	assert.False(t, ConsumesCapacity(StatusQuotation))
	assert.False(t, ConsumesCapacity(StatusReturned))
	assert.False(t, ConsumesCapacity(StatusCancelled))
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusReturned.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusQuotation.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusPickedUp.Terminal())
}
