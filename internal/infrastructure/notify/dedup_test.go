package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDedupAcquire(t *testing.T) {
	d := NewDedup(time.Hour)

	assert.True(t, d.Acquire("contract-expiry:1:2026-09-30"))
	assert.False(t, d.Acquire("contract-expiry:1:2026-09-30"))
	assert.True(t, d.Acquire("contract-expiry:2:2026-09-30"), "different key is independent")
}

func TestDedupExpiry(t *testing.T) {
	d := NewDedup(time.Hour)
	current := time.Now()
	d.now = func() time.Time { return current }

	assert.True(t, d.Acquire("meter-due:3:2026-09-05"))
	assert.False(t, d.Acquire("meter-due:3:2026-09-05"))

	current = current.Add(2 * time.Hour)
	assert.True(t, d.Acquire("meter-due:3:2026-09-05"), "lease must be free after the TTL")
}
