package redisx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/ariefcatur/go-store-orders/internal/redisx/redisxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transition(id orders.OrderID, from, to orders.Status, at time.Time) orders.Transition {
	return orders.Transition{Order: orders.Order{ID: id, Status: to, UpdatedAt: at}, From: from, To: to, At: at}
}

func TestStatusCache_StaleFillDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	rdb := redisxtest.New()
	c := &StatusCache{RDB: rdb}
	t0 := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	// reader saw pending, then dispatch committed and notified, then the
	// reader's fill landed
	stale := orders.Order{ID: 1, Status: orders.StatusPending, UpdatedAt: t0}
	c.Notify(ctx, transition(1, orders.StatusPending, orders.StatusProcessing, t0.Add(time.Second)))
	c.Set(ctx, stale)

	cs, ok := c.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, orders.StatusProcessing, cs.Status)
	assert.True(t, t0.Add(time.Second).Equal(cs.UpdatedAt))
	assert.Equal(t, TTLStatusCache, rdb.ExpirationOf(fmt.Sprintf(KeyOrderStatus, 1)))
}

func TestStatusCache_OutOfOrderNotifications(t *testing.T) {
	ctx := context.Background()
	c := &StatusCache{RDB: redisxtest.New()}
	t0 := time.Now().UTC()

	c.Notify(ctx, transition(2, "", orders.StatusPending, t0))
	c.Notify(ctx, transition(2, orders.StatusProcessing, orders.StatusCancelled, t0.Add(2*time.Second)))
	c.Notify(ctx, transition(2, orders.StatusPending, orders.StatusProcessing, t0.Add(time.Second)))

	cs, ok := c.Get(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, orders.StatusCancelled, cs.Status)
}

func TestStatusCache_MissAndErrors(t *testing.T) {
	ctx := context.Background()
	rdb := redisxtest.New()
	c := &StatusCache{RDB: rdb}

	_, ok := c.Get(ctx, 9)
	assert.False(t, ok)

	rdb.Err = errors.New("connection refused")
	c.Notify(ctx, transition(9, "", orders.StatusPending, time.Now()))
	_, ok = c.Get(ctx, 9)
	assert.False(t, ok)
}

func TestIdempotency_ClaimLifecycle(t *testing.T) {
	ctx := context.Background()
	rdb := redisxtest.New()
	idem := &Idempotency{RDB: rdb}

	_, claimed, err := idem.Claim(ctx, "ext-1")
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, TTLIdemClaim, rdb.ExpirationOf(fmt.Sprintf(KeyIdemOrderAdmit, "ext-1")))

	_, claimed, err = idem.Claim(ctx, "ext-1")
	assert.ErrorIs(t, err, ErrAdmissionInFlight)
	assert.False(t, claimed)

	require.NoError(t, idem.Remember(ctx, "ext-1", 42))
	id, claimed, err := idem.Claim(ctx, "ext-1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, orders.OrderID(42), id)
	assert.Equal(t, TTLIdempotency, rdb.ExpirationOf(fmt.Sprintf(KeyIdemOrderAdmit, "ext-1")))

	_, claimed, err = idem.Claim(ctx, "ext-2")
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, idem.Release(ctx, "ext-2"))
	_, claimed, err = idem.Claim(ctx, "ext-2")
	require.NoError(t, err)
	assert.True(t, claimed, "released claim can be taken again")
}

func TestIdempotency_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	idem := &Idempotency{RDB: redisxtest.New()}

	const n = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, claimed, err := idem.Claim(ctx, "ext-race")
			if claimed {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrAdmissionInFlight)
		}()
	}
	close(start)
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestDedup_FirstSeen(t *testing.T) {
	ctx := context.Background()
	rdb := redisxtest.New()
	d := &Dedup{RDB: rdb, Service: "fulfillment"}

	assert.True(t, d.FirstSeen(ctx, "evt-1"))
	assert.False(t, d.FirstSeen(ctx, "evt-1"))
	assert.True(t, d.FirstSeen(ctx, "evt-2"))

	rdb.Err = errors.New("timeout")
	assert.True(t, d.FirstSeen(ctx, "evt-1"), "fails open")
}
