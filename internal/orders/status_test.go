package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusProcessing, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCancelled, false},
		{Status("shipped"), StatusCompleted, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, Status("bogus").Terminal())
	assert.False(t, Status("bogus").Valid())
}

func TestValidateItems(t *testing.T) {
	assert.ErrorIs(t, ValidateItems(nil), ErrInvalidItems)
	assert.ErrorIs(t, ValidateItems([]Item{{ProductID: 1, Qty: 0}}), ErrInvalidItems)
	assert.ErrorIs(t, ValidateItems([]Item{{ProductID: 1, Qty: 2}, {ProductID: 2, Qty: -1}}), ErrInvalidItems)
	assert.NoError(t, ValidateItems([]Item{{ProductID: 1, Qty: 1}}))
}

func TestTopicAndEventFor(t *testing.T) {
	assert.Equal(t, TopicOrderAdmitted, TopicFor(StatusPending))
	assert.Equal(t, TopicOrderDispatched, TopicFor(StatusProcessing))
	assert.Equal(t, EventOrderCompleted, EventTypeFor(StatusCompleted))
	assert.Equal(t, EventOrderCancelled, EventTypeFor(StatusCancelled))
	assert.Empty(t, TopicFor(Status("x")))
	assert.Equal(t, []byte("42"), PartitionKey(42))
}
