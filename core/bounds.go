package core

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is the rectangular ground area, centered on the origin, inside
// which wandering agents pick their anchors.
type Bounds struct {
	Width float64 `yaml:"width"`
	Depth float64 `yaml:"depth"`
}

// Sample draws a uniform point on the ground plane inside the bounds.
func (b Bounds) Sample(rng *rand.Rand) mgl64.Vec3 {
	return mgl64.Vec3{(rng.Float64() - 0.5) * b.Width, 0, (rng.Float64() - 0.5) * b.Depth}
}

// RollWanderAnchor replaces the agent's wander anchor with the next point of
// its private sequence. The sequence depends only on Seed and WanderRolls.
func (a *Agent) RollWanderAnchor(b Bounds) {
	a.WanderRolls++
	rng := rand.New(rand.NewPCG(a.Seed, a.WanderRolls))
	a.WanderAnchor = b.Sample(rng)
}
