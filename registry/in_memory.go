package registry

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hupe1980/crowdmesh/core"
)

type entry struct {
	position mgl64.Vec3
	mounted  bool
}

// InMemoryRegistry is a process local TargetRegistry. It is safe for
// concurrent access: the renderer writes while the frame pass reads.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewInMemoryRegistry constructs an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{entries: make(map[string]entry)}
}

// Register mounts a target at the given position, replacing any previous
// entry for the id.
func (r *InMemoryRegistry) Register(targetID string, pos mgl64.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[targetID] = entry{position: pos, mounted: true}
}

// Update moves a mounted target. Updates for unknown ids register them.
func (r *InMemoryRegistry) Update(targetID string, pos mgl64.Vec3) {
	r.Register(targetID, pos)
}

// Unregister unmounts a target. Its last position is retained as the
// fallback answer for Position until Forget or a new Register.
func (r *InMemoryRegistry) Unregister(targetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[targetID]; ok {
		e.mounted = false
		r.entries[targetID] = e
	}
}

// Forget drops every trace of a target, including its last-known position.
func (r *InMemoryRegistry) Forget(targetID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, targetID)
}

// Position returns the live position of a mounted target, or the last-known
// position of an unmounted one. It reports false only for ids never seen.
func (r *InMemoryRegistry) Position(targetID string) (mgl64.Vec3, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[targetID]
	if !ok {
		return mgl64.Vec3{}, false
	}
	return e.position, true
}

// Mounted reports whether a target is currently mounted.
func (r *InMemoryRegistry) Mounted(targetID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[targetID].mounted
}

// Len returns the number of mounted targets.
func (r *InMemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.entries {
		if e.mounted {
			n++
		}
	}
	return n
}

var _ core.TargetRegistry = (*InMemoryRegistry)(nil)
