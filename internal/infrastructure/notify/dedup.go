package notify

import (
	"sync"
	"time"
)

// Dedup is an in-memory lease cache keyed by notification identity.
// A key stays taken for the TTL, so repeated scans within the window
// do not renotify the same event.
type Dedup struct {
	mu     sync.Mutex
	ttl    time.Duration
	leases map[string]time.Time
	now    func() time.Time
}

func NewDedup(ttl time.Duration) *Dedup {
	return &Dedup{
		ttl:    ttl,
		leases: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Acquire reports whether the key was free and takes it for the TTL.
func (d *Dedup) Acquire(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if until, ok := d.leases[key]; ok && now.Before(until) {
		return false
	}
	d.leases[key] = now.Add(d.ttl)
	d.prune(now)
	return true
}

// prune drops expired leases. Called under the lock.
func (d *Dedup) prune(now time.Time) {
	if len(d.leases) < 1024 {
		return
	}
	for key, until := range d.leases {
		if now.After(until) {
			delete(d.leases, key)
		}
	}
}
