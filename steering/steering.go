package steering

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hupe1980/crowdmesh/core"
)

var up = mgl64.Vec3{0, 1, 0}

// Objective resolves where the agent is heading this frame. Wanderers that
// reached their anchor re-roll it first. Assigned agents aim at the target's
// registry position plus their orbit offset; a target the registry has never
// seen makes the agent hold its ground.
func Objective(a *core.Agent, index int, reg core.TargetRegistry, p Params) mgl64.Vec3 {
	if !a.Assigned() {
		if groundDistance(a.Position, a.WanderAnchor) < p.ArrivalRadius {
			a.RollWanderAnchor(p.Wander)
		}
		return a.WanderAnchor
	}

	center, ok := reg.Position(a.AssignedTargetID)
	if !ok {
		return a.Position
	}
	return center.Add(OrbitOffset(index, p))
}

// OrbitOffset fans agents around a shared target. The slot depends only on
// the agent's pool index.
func OrbitOffset(index int, p Params) mgl64.Vec3 {
	angle := float64(index) * p.OrbitAngleStep
	radius := p.OrbitBaseRadius
	if p.OrbitRadiusSlots > 0 {
		radius += float64(index % p.OrbitRadiusSlots)
	}
	return mgl64.Vec3{math.Cos(angle) * radius, 0, math.Sin(angle) * radius}
}

// StopRadius is tighter around a crowd than in open space.
func StopRadius(a *core.Agent, p Params) float64 {
	if a.Assigned() {
		return p.AssignedStopRadius
	}
	return p.WanderStopRadius
}

// Speed is the agent's distance per reference frame.
func Speed(a *core.Agent, p Params) float64 {
	return p.BaseSpeed + a.SpeedFactor*p.SpeedVariance
}

// Steer advances one agent by one frame: resolve the objective, translate
// on the ground plane unless inside the stop radius, turn toward the heading
// and blend the appearance. It reports whether the agent moved.
func Steer(a *core.Agent, index int, reg core.TargetRegistry, f Frame, p Params) bool {
	if reg == nil {
		reg = core.EmptyRegistry{}
	}
	objective := Objective(a, index, reg, p)
	k := p.frames(f)

	delta := mgl64.Vec3{objective.X() - a.Position.X(), 0, objective.Z() - a.Position.Z()}
	dist := delta.Len()
	a.Moving = dist > StopRadius(a, p)

	if a.Moving {
		step := math.Min(Speed(a, p)*k, dist)
		a.Position = a.Position.Add(delta.Mul(step / dist))

		heading := mgl64.QuatRotate(math.Atan2(delta.X(), delta.Z()), up)
		a.Orientation = slerp(a.Orientation, heading, rate(p.TurnRate, k))
	}

	blendAppearance(a, k, p)
	return a.Moving
}

func blendAppearance(a *core.Agent, k float64, p Params) {
	target := core.ParseColor(a.Color)
	highlight := p.WanderHighlight
	if a.Assigned() {
		highlight = p.AssignedHighlight
	}
	t := rate(p.ColorRate, k)
	a.Appearance.Color = a.Appearance.Color.BlendRgb(target, t)
	a.Appearance.Highlight += (highlight - a.Appearance.Highlight) * t
}

// rate converts a per-reference-frame blend factor into the factor for k
// reference frames, keeping exponential smoothing frame-rate independent.
func rate(perFrame, k float64) float64 {
	if k <= 0 || perFrame <= 0 {
		return 0
	}
	if perFrame >= 1 {
		return 1
	}
	return 1 - math.Pow(1-perFrame, k)
}

// slerp interpolates along the shortest arc. A zero quaternion (an agent
// that was never initialized) snaps straight to the goal.
func slerp(from, to mgl64.Quat, t float64) mgl64.Quat {
	if from.Len() == 0 {
		return to
	}
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl64.QuatSlerp(from, to, t).Normalize()
}

func groundDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(a.X()-b.X(), a.Z()-b.Z())
}
