package payments

import (
	"time"

	"github.com/JonasWeidner/CoachDesk/internal/pkg/cache"
)

// Deduper answers whether an event id is being seen for the first time. It
// is a fast path only; the webhook event table remains the durable gate.
type Deduper interface {
	FirstDelivery(eventID string) bool
}

type cacheDeduper struct {
	ttl time.Duration
}

// NewCacheDeduper creates a redis-backed deduper. Event ids are held for the
// given TTL, comfortably longer than Stripe's redelivery window.
func NewCacheDeduper(ttl time.Duration) Deduper {
	return &cacheDeduper{ttl: ttl}
}

func (d *cacheDeduper) FirstDelivery(eventID string) bool {
	if eventID == "" {
		return true
	}
	ok, err := cache.SetNX("stripe:webhook:event:"+eventID, 1, d.ttl)
	if err != nil {
		// Cache down: treat as first delivery and let the database decide.
		return true
	}
	return ok
}
