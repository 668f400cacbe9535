package redisx

import "time"

const (
	// Admission idempotency: idem:order:admit:{external_id} -> "pending" | order_id
	KeyIdemOrderAdmit = "idem:order:admit:%s"

	// Cached order status: order_status:{order_id} -> hash {rank: {"status": "...", "updated_at": "..."}}
	KeyOrderStatus = "order_status:%d"

	// Dedup of event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLIdemClaim   = 30 * time.Second
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
