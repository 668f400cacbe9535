package orders

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryLog_PerOrderSequence(t *testing.T) {
	h := NewHistoryLog()
	t0 := time.Now()

	h.Append(1, StatusPending, t0)
	h.Append(2, StatusPending, t0)
	h.Append(1, StatusProcessing, t0.Add(time.Second))
	h.Append(1, StatusCompleted, t0.Add(2*time.Second))

	got := h.For(1)
	require.Len(t, got, 3)
	assert.Equal(t, []Status{StatusPending, StatusProcessing, StatusCompleted},
		[]Status{got[0].Status, got[1].Status, got[2].Status})
	assert.Less(t, got[0].Seq, got[1].Seq)
	assert.Less(t, got[1].Seq, got[2].Seq)

	assert.Len(t, h.For(2), 1)
	assert.Nil(t, h.For(3))
	assert.Equal(t, 4, h.Len())
}

func TestHistoryLog_ConcurrentAppendKeepsSeqUnique(t *testing.T) {
	h := NewHistoryLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id OrderID) {
			defer wg.Done()
			h.Append(id, StatusPending, time.Now())
		}(OrderID(i + 1))
	}
	wg.Wait()

	seen := map[uint64]bool{}
	for i := 1; i <= 50; i++ {
		e := h.For(OrderID(i))
		require.Len(t, e, 1)
		assert.False(t, seen[e[0].Seq])
		seen[e[0].Seq] = true
	}
}
