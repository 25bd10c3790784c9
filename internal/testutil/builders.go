package testutil

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hupe1980/crowdmesh/core"
	"github.com/hupe1980/crowdmesh/reconcile"
)

// Target returns a visible target with the given id and demand.
func Target(id string, desired int) core.Target {
	return core.Target{ID: id, Label: id, DesiredCount: desired, Color: "#bc13fe", Visible: true}
}

// TargetsBuilder helps construct target lists with fluent chaining.
// Example:
//
//	targets := NewTargets().Add("signup", 3).Hidden("nav", 2).Build()
type TargetsBuilder struct {
	targets []core.Target
}

// NewTargets creates an empty builder.
func NewTargets() *TargetsBuilder { return &TargetsBuilder{} }

// Add appends a visible target (chainable).
func (b *TargetsBuilder) Add(id string, desired int) *TargetsBuilder {
	b.targets = append(b.targets, Target(id, desired))
	return b
}

// Colored appends a visible target with an explicit color (chainable).
func (b *TargetsBuilder) Colored(id string, desired int, color string) *TargetsBuilder {
	t := Target(id, desired)
	t.Color = color
	b.targets = append(b.targets, t)
	return b
}

// Hidden appends an invisible target (chainable).
func (b *TargetsBuilder) Hidden(id string, desired int) *TargetsBuilder {
	t := Target(id, desired)
	t.Visible = false
	b.targets = append(b.targets, t)
	return b
}

// Build returns the accumulated targets.
func (b *TargetsBuilder) Build() []core.Target {
	out := make([]core.Target, len(b.targets))
	copy(out, b.targets)
	return out
}

// Spawner returns a deterministic spawner producing ids agent-0, agent-1, ...
func Spawner(seed uint64) *reconcile.Spawner {
	n := 0
	return reconcile.NewSpawner(func(o *reconcile.SpawnerOptions) {
		o.Source = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
		o.NewID = func() string {
			id := fmt.Sprintf("agent-%d", n)
			n++
			return id
		}
	})
}

// Sessions builds a SessionMap from alternating id/focus pairs. An empty
// focus yields a session without focus.
func Sessions(pairs ...string) core.SessionMap {
	m := make(core.SessionMap, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[pairs[i]] = core.SessionRecord{SessionID: pairs[i], FocusTargetID: pairs[i+1]}
	}
	return m
}

// StaticRegistry is a fixed id to position map.
type StaticRegistry map[string]mgl64.Vec3

// Position implements core.TargetRegistry.
func (r StaticRegistry) Position(id string) (mgl64.Vec3, bool) {
	p, ok := r[id]
	return p, ok
}

// AssignmentsOf maps agent ids to assigned target ids.
func AssignmentsOf(pool reconcile.Pool) map[string]string {
	out := make(map[string]string, len(pool))
	for _, a := range pool {
		out[a.ID] = a.AssignedTargetID
	}
	return out
}
