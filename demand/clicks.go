package demand

import (
	"cmp"
	"slices"
	"sync"

	"github.com/hupe1980/crowdmesh/core"
)

// Entry is one target's click tally.
type Entry struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Clicks aggregates interaction counts per target id. It is safe for
// concurrent use.
type Clicks struct {
	mu     sync.RWMutex
	counts map[string]int
}

// NewClicks creates an empty tally.
func NewClicks() *Clicks {
	return &Clicks{counts: make(map[string]int)}
}

// Record adds n clicks to a target. Empty ids and non-positive n are ignored.
func (c *Clicks) Record(id string, n int) {
	if id == "" || n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[id] += n
}

// Count returns the clicks recorded for a target.
func (c *Clicks) Count(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[id]
}

// Total returns the sum of all clicks.
func (c *Clicks) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Ranking returns every tally ordered by descending count, ties broken by id.
func (c *Clicks) Ranking() []Entry {
	c.mu.RLock()
	entries := make([]Entry, 0, len(c.counts))
	for id, n := range c.counts {
		entries = append(entries, Entry{ID: id, Count: n})
	}
	c.mu.RUnlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		if d := cmp.Compare(b.Count, a.Count); d != 0 {
			return d
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return entries
}

// Top returns the most clicked target, or false when nothing was recorded.
func (c *Clicks) Top() (Entry, bool) {
	ranking := c.Ranking()
	if len(ranking) == 0 {
		return Entry{}, false
	}
	return ranking[0], true
}

// Apply returns a copy of targets with DesiredCount set to each target's
// click count.
func (c *Clicks) Apply(targets []core.Target) []core.Target {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]core.Target, len(targets))
	for i, t := range targets {
		t.DesiredCount = c.counts[t.ID]
		out[i] = t
	}
	return out
}

// Reset forgets all clicks.
func (c *Clicks) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.counts)
}
