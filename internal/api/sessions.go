package api

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/resolve"
)

// sessionHandle pairs a session with the mutex that serializes calls into
// it. The engine itself does no locking; every handler goes through
// withSession.
type sessionHandle struct {
	id   string
	mu   sync.Mutex
	sess *resolve.Session
	// lastSeen is a unix-nano timestamp, atomic because the reaper reads
	// it while handlers refresh it.
	lastSeen atomic.Int64
}

// sessionRegistry is the in-memory session table. Sessions are ephemeral:
// they exist to serve one resolution run and are reaped once idle.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionHandle
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*sessionHandle)}
}

func (r *sessionRegistry) create(cat *catalog.Catalog, configure func(id string, s *resolve.Session)) *sessionHandle {
	h := &sessionHandle{
		id:   uuid.New().String(),
		sess: resolve.NewSession(cat),
	}
	h.lastSeen.Store(time.Now().UnixNano())
	if configure != nil {
		configure(h.id, h.sess)
	}

	r.mu.Lock()
	r.sessions[h.id] = h
	r.mu.Unlock()
	return h
}

func (r *sessionRegistry) get(id string) (*sessionHandle, bool) {
	r.mu.RLock()
	h, ok := r.sessions[id]
	r.mu.RUnlock()
	return h, ok
}

func (r *sessionRegistry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *sessionRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// pruneIdle drops sessions untouched for longer than maxIdle and reports how
// many were reaped.
func (r *sessionRegistry) pruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, h := range r.sessions {
		if h.lastSeen.Load() < cutoff {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// with runs fn with the session locked, refreshing the idle clock.
func (h *sessionHandle) with(fn func(s *resolve.Session)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastSeen.Store(time.Now().UnixNano())
	fn(h.sess)
}
