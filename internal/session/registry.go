package session

import (
	"log/slog"
	"sync"
	"time"
)

type registryEntry struct {
	controller *Controller
	lastSeen   time.Time
}

// Registry tracks live sessions and tears down those idle past the TTL.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	idleTTL time.Duration
	now     func() time.Time
	logger  *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRegistry constructs a registry with a background janitor sweeping idle
// sessions.
func NewRegistry(idleTTL time.Duration, logger *slog.Logger) *Registry {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		entries: make(map[string]*registryEntry),
		idleTTL: idleTTL,
		now:     time.Now,
		logger:  logger,
		stop:    make(chan struct{}),
	}
	go r.janitor()
	return r
}

// Put registers a session.
func (r *Registry) Put(c *Controller) {
	r.mu.Lock()
	r.entries[c.ID()] = &registryEntry{controller: c, lastSeen: r.now()}
	r.mu.Unlock()
}

// Get returns a session by id, refreshing its idle deadline.
func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.controller, true
}

// Remove tears the session down and forgets it.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	entry, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if ok {
		entry.controller.Teardown()
	}
}

// Len reports the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Stop halts the janitor and tears down every tracked session.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })

	r.mu.Lock()
	entries := make([]*registryEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, entry := range entries {
		entry.controller.Teardown()
	}
}

func (r *Registry) janitor() {
	ticker := time.NewTicker(r.idleTTL / 4)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var expired []*registryEntry
	for id, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, entry := range expired {
		r.logger.Info("expiring idle session", "session_id", entry.controller.ID())
		entry.controller.Teardown()
	}
}
