package jwt

import (
	"sync"
	"time"
)

// Denylist remembers revoked token ids until their expiry.
type Denylist interface {
	Add(id string, expiresAt time.Time)
	Contains(id string) bool
}

type memoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() Denylist {
	return &memoryDenylist{entries: make(map[string]time.Time), now: time.Now}
}

func (d *memoryDenylist) Add(id string, expiresAt time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[id] = expiresAt
	now := d.now()
	for k, exp := range d.entries {
		if exp.Before(now) {
			delete(d.entries, k)
		}
	}
}

func (d *memoryDenylist) Contains(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.entries[id]
	return ok && exp.After(d.now())
}
