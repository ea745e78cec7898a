// apps/go-server/internal/play/registry.go
//
// Registry tracks hosted sessions by id.
//
// Lifecycle:
//   - Create allocates a Controller under a fresh UUID.
//   - Get looks one up; unknown ids yield ErrNoSession. Remove drops one.
//   - Sweep drops controllers idle longer than the TTL; Run calls it on a ticker
//     until its context ends.
//   - Close stops every controller's timers and waits for pending reports.

package play

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/emoji"
)

type Registry struct {
	source   emoji.Source
	reporter Reporter
	opts     Options

	mu       sync.RWMutex
	sessions map[string]*Controller
}

// NewRegistry builds an empty registry; every controller shares source, reporter and opts.
func NewRegistry(source emoji.Source, reporter Reporter, opts Options) *Registry {
	if opts.Rand != nil {
		// Controllers build decks concurrently; *rand.Rand is not safe for that.
		opts.Rand = rand.New(&lockedSource{src: opts.Rand})
	}
	return &Registry{
		source:   source,
		reporter: reporter,
		opts:     opts.withDefaults(),
		sessions: make(map[string]*Controller),
	}
}

// Create registers a new NotStarted controller.
func (r *Registry) Create() *Controller {
	c := NewController(uuid.NewString(), r.source, r.reporter, r.opts)
	r.mu.Lock()
	r.sessions[c.ID()] = c
	r.mu.Unlock()
	return c
}

// Get returns the controller for id.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return c, nil
}

// Remove drops id and cancels its timers.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	c, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		c.Close()
	}
}

// Len reports how many sessions are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions untouched for longer than ttl and returns how many went.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.opts.Now().Add(-ttl)

	r.mu.Lock()
	var idle []*Controller
	for id, c := range r.sessions {
		if c.Touched().Before(cutoff) && !c.View().Building {
			delete(r.sessions, id)
			idle = append(idle, c)
		}
	}
	r.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
	return len(idle)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(ttl); n > 0 {
				log.Info().Int("removed", n).Int("remaining", r.Len()).Msg("idle sessions swept")
			}
		}
	}
}

// Close cancels every controller's timers and waits for their reports.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Controller, 0, len(r.sessions))
	for _, c := range r.sessions {
		all = append(all, c)
	}
	r.mu.Unlock()

	for _, c := range all {
		c.Close()
		c.WaitReports()
	}
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}
