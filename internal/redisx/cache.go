package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// StatusCache is a write-through view of order status. Every status an order
// enters is stored in its own hash field keyed by lifecycle rank and readers
// take the furthest one, so late or stale writes never roll the view back.
type StatusCache struct {
	RDB redis.Cmdable
}

type CachedStatus struct {
	Status    orders.Status `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (c *StatusCache) Notify(ctx context.Context, t orders.Transition) {
	if err := c.put(ctx, t.Order.ID, CachedStatus{Status: t.To, UpdatedAt: t.At}); err != nil {
		log.Warn().Err(err).Int64("order_id", int64(t.Order.ID)).Msg("status cache write failed")
	}
}

// Get reports ok=false on a miss or any Redis error.
func (c *StatusCache) Get(ctx context.Context, id orders.OrderID) (CachedStatus, bool) {
	var cs CachedStatus
	fields, err := c.RDB.HGetAll(ctx, fmt.Sprintf(KeyOrderStatus, id)).Result()
	if err != nil {
		return cs, false
	}
	best := -1
	for f, v := range fields {
		r, err := strconv.Atoi(f)
		if err != nil || r <= best {
			continue
		}
		var cur CachedStatus
		if err := json.Unmarshal([]byte(v), &cur); err != nil {
			continue
		}
		best, cs = r, cur
	}
	return cs, best >= 0
}

// Set fills the cache from a read of the engine.
func (c *StatusCache) Set(ctx context.Context, o orders.Order) {
	_ = c.put(ctx, o.ID, CachedStatus{Status: o.Status, UpdatedAt: o.UpdatedAt})
}

func (c *StatusCache) put(ctx context.Context, id orders.OrderID, cs CachedStatus) error {
	key := fmt.Sprintf(KeyOrderStatus, id)
	b, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	if err := c.RDB.HSet(ctx, key, strconv.Itoa(rank(cs.Status)), b).Err(); err != nil {
		return err
	}
	return c.RDB.Expire(ctx, key, TTLStatusCache).Err()
}

// rank orders statuses along the lifecycle. Statuses only move forward and an
// order reaches at most one terminal status.
func rank(s orders.Status) int {
	switch s {
	case orders.StatusPending:
		return 0
	case orders.StatusProcessing:
		return 1
	default:
		return 2
	}
}

// ErrAdmissionInFlight means another request holds the claim on an external
// id and has not recorded its order yet.
var ErrAdmissionInFlight = errors.New("admission with this external id in progress")

const claimPending = "pending"

// Idempotency maps client external ids to admitted orders.
type Idempotency struct {
	RDB redis.Cmdable
}

// Claim atomically reserves externalID for one admission. claimed is true
// when the caller won and must follow up with Remember or Release. Otherwise
// the id of the order already recorded is returned, or ErrAdmissionInFlight
// while the winning request is still admitting.
func (i *Idempotency) Claim(ctx context.Context, externalID string) (id orders.OrderID, claimed bool, err error) {
	key := fmt.Sprintf(KeyIdemOrderAdmit, externalID)
	ok, err := i.RDB.SetNX(ctx, key, claimPending, TTLIdemClaim).Result()
	if err != nil {
		return 0, false, err
	}
	if ok {
		return 0, true, nil
	}
	s, err := i.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) || s == claimPending {
		// released or expired between the two calls counts as in flight too
		return 0, false, ErrAdmissionInFlight
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency key %s: %w", externalID, err)
	}
	return orders.OrderID(n), false, nil
}

// Remember records the admitted order for externalID, replacing the claim.
func (i *Idempotency) Remember(ctx context.Context, externalID string, id orders.OrderID) error {
	return i.RDB.Set(ctx, fmt.Sprintf(KeyIdemOrderAdmit, externalID), int64(id), TTLIdempotency).Err()
}

// Release drops a claim whose admission failed so the client may retry.
func (i *Idempotency) Release(ctx context.Context, externalID string) error {
	return i.RDB.Del(ctx, fmt.Sprintf(KeyIdemOrderAdmit, externalID)).Err()
}

// Dedup marks event ids as processed for one consuming service.
type Dedup struct {
	RDB     redis.Cmdable
	Service string
}

// FirstSeen atomically marks the event and reports whether this call was the
// first to do so. Redis errors fail open so processing is not blocked.
func (d *Dedup) FirstSeen(ctx context.Context, eventID string) bool {
	ok, err := d.RDB.SetNX(ctx, fmt.Sprintf(KeyDedup, d.Service, eventID), "1", TTLDedup).Result()
	if err != nil {
		log.Warn().Err(err).Str("event_id", eventID).Msg("dedup check failed")
		return true
	}
	return ok
}
