// Package media holds freshly generated images in memory behind opaque
// "blob:<uuid>" handles so clients can display them before a reading is
// saved. Handles are process-local and expire after a TTL.
package media

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HandlePrefix marks an ephemeral image reference.
const HandlePrefix = "blob:"

// Image is a decoded image payload.
type Image struct {
	Data      []byte
	MIME      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Registry is a TTL-bounded in-memory image store. Safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	items map[string]Image
	ttl   time.Duration
	now   func() time.Time

	putsSinceSweep int
}

// sweepEvery is how many Puts trigger an opportunistic sweep.
const sweepEvery = 256

// NewRegistry returns a registry whose entries live for ttl (<= 0 means 30m).
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Registry{items: make(map[string]Image), ttl: ttl, now: time.Now}
}

// IsHandle reports whether s is an ephemeral handle.
func IsHandle(s string) bool { return strings.HasPrefix(s, HandlePrefix) }

// ID strips the handle prefix.
func ID(handle string) string { return strings.TrimPrefix(handle, HandlePrefix) }

// Put stores data and returns its handle.
func (r *Registry) Put(data []byte, mime string) string {
	if mime == "" {
		mime = "image/png"
	}
	id := uuid.NewString()
	now := r.now()

	r.mu.Lock()
	r.putsSinceSweep++
	if r.putsSinceSweep >= sweepEvery {
		r.sweepLocked(now)
		r.putsSinceSweep = 0
	}
	r.items[id] = Image{Data: data, MIME: mime, CreatedAt: now, ExpiresAt: now.Add(r.ttl)}
	r.mu.Unlock()

	return HandlePrefix + id
}

// Get returns the image for a handle or a bare id. Expired entries are
// dropped on access.
func (r *Registry) Get(handle string) (Image, bool) {
	id := ID(handle)
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.items[id]
	if !ok {
		return Image{}, false
	}
	if !r.now().Before(img.ExpiresAt) {
		delete(r.items, id)
		return Image{}, false
	}
	return img, true
}

// Retire shortens a handle's remaining lifetime to at most grace. It is
// called once the image has a durable copy; clients still rendering the
// handle keep working until the grace window ends. grace <= 0 drops the
// handle at once.
func (r *Registry) Retire(handle string, grace time.Duration) {
	id := ID(handle)
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.items[id]
	if !ok {
		return
	}
	if grace <= 0 {
		delete(r.items, id)
		return
	}
	if until := r.now().Add(grace); until.Before(img.ExpiresAt) {
		img.ExpiresAt = until
		r.items[id] = img
	}
}

// Sweep evicts every expired entry and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *Registry) sweepLocked(now time.Time) int {
	n := 0
	for id, img := range r.items {
		if !now.Before(img.ExpiresAt) {
			delete(r.items, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, expired or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
