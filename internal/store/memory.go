// apps/go-server/internal/store/memory.go
//
// In-memory implementation of leaderboard.Store.
// Used for development/testing, or when durability is not required.
//
// Characteristics:
//   - Entries are kept in an append-only slice.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/robalobadob/emoji-memory/apps/go-server/internal/leaderboard"
)

// Memory is a slice-backed Store.
type Memory struct {
	mu      sync.RWMutex        // guards entries
	entries []leaderboard.Entry // insertion order
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{}
}

// Insert appends e.
func (m *Memory) Insert(ctx context.Context, e leaderboard.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// Leaderboard filters winning entries and sorts them into ranking order.
func (m *Memory) Leaderboard(ctx context.Context, q leaderboard.Query) ([]leaderboard.Entry, error) {
	m.mu.RLock()
	out := make([]leaderboard.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if !e.Won || (q.Difficulty != "" && e.Difficulty != q.Difficulty) {
			continue
		}
		out = append(out, e)
	}
	m.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b leaderboard.Entry) int {
		if c := cmp.Compare(a.Difficulty.Rank(), b.Difficulty.Rank()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Flips, b.Flips); c != 0 {
			return c
		}
		return b.RecordedAt.Compare(a.RecordedAt)
	})
	return truncate(out, q.Limit), nil
}

// History returns username's most recent entries.
func (m *Memory) History(ctx context.Context, username string, limit int) ([]leaderboard.Entry, error) {
	m.mu.RLock()
	var out []leaderboard.Entry
	for _, e := range m.entries {
		if e.Username == username {
			out = append(out, e)
		}
	}
	m.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b leaderboard.Entry) int {
		return b.RecordedAt.Compare(a.RecordedAt)
	})
	return truncate(out, limit), nil
}

// Count reports all entries, or winning entries only.
func (m *Memory) Count(ctx context.Context, wonOnly bool) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !wonOnly {
		return len(m.entries), nil
	}
	n := 0
	for _, e := range m.entries {
		if e.Won {
			n++
		}
	}
	return n, nil
}

// AverageWinningFlips averages flips over winning entries.
func (m *Memory) AverageWinningFlips(ctx context.Context) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum, n int
	for _, e := range m.entries {
		if e.Won {
			sum += e.Flips
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(n), true, nil
}

func truncate(e []leaderboard.Entry, limit int) []leaderboard.Entry {
	if limit > 0 && len(e) > limit {
		return e[:limit]
	}
	return e
}
