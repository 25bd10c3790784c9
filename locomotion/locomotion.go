// Package locomotion derives an agent's limb and body pose from time.
//
// The pose is a pure function of elapsed time, the agent's speed factor and
// whether it moved this frame. Nothing is carried between frames, so agents
// can never drift out of step with the clock.
package locomotion

import (
	"math"

	"github.com/hupe1980/crowdmesh/core"
)

// Params tunes the walk cycle.
type Params struct {
	// StrideFrequency scales elapsed seconds into walk cycle radians.
	StrideFrequency float64 `yaml:"stride_frequency"`
	// PhaseSpread offsets each agent's cycle by speedFactor*PhaseSpread so
	// crowds do not march in lockstep.
	PhaseSpread float64 `yaml:"phase_spread"`
	ArmSwing    float64 `yaml:"arm_swing"`
	LegSwing    float64 `yaml:"leg_swing"`
	StrideBob   float64 `yaml:"stride_bob"`

	BreathFrequency float64 `yaml:"breath_frequency"`
	BreathBob       float64 `yaml:"breath_bob"`
}

// DefaultParams is a brisk walk with a slow idle breath.
var DefaultParams = Params{
	StrideFrequency: 15,
	PhaseSpread:     10,
	ArmSwing:        0.6,
	LegSwing:        0.8,
	StrideBob:       0.1,
	BreathFrequency: 2,
	BreathBob:       0.02,
}

// Drive returns the pose for one frame. Moving agents swing opposing limbs
// and bounce; idle agents rest their limbs and only breathe.
func Drive(elapsed, speedFactor float64, moving bool, p Params) core.Pose {
	if !moving {
		return core.Pose{BodyBob: math.Sin(elapsed*p.BreathFrequency) * p.BreathBob}
	}
	s := math.Sin(elapsed*p.StrideFrequency + speedFactor*p.PhaseSpread)
	return core.Pose{
		LeftArm:  s * p.ArmSwing,
		RightArm: -s * p.ArmSwing,
		LeftLeg:  -s * p.LegSwing,
		RightLeg: s * p.LegSwing,
		BodyBob:  math.Abs(s) * p.StrideBob,
	}
}

// Apply writes the pose for the agent's current motion state and lifts the
// body by the bob offset.
func Apply(a *core.Agent, elapsed float64, p Params) {
	a.Pose = Drive(elapsed, a.SpeedFactor, a.Moving, p)
	a.Position[1] = a.Pose.BodyBob
}
