package core

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Agent is a simulated occupant of the scene.
//
// Reconciliation owns AssignedTargetID and Color; the per-frame pass owns
// Position, Orientation, Appearance, Moving and Pose. An empty
// AssignedTargetID means the agent is wandering.
type Agent struct {
	ID string

	Position    mgl64.Vec3
	Orientation mgl64.Quat

	AssignedTargetID string
	// Color is the hex color the agent should converge to: the assigned
	// target's color, or NeutralColor while wandering.
	Color string
	// Appearance is the interpolated display state written every frame.
	Appearance Appearance

	WanderAnchor mgl64.Vec3
	SpeedFactor  float64

	// Seed and WanderRolls derive successive wander anchors without shared
	// random state, so agents can be stepped in parallel.
	Seed        uint64
	WanderRolls uint64

	Moving bool
	Pose   Pose
}

// Appearance is the display color and emphasis of an agent.
type Appearance struct {
	Color     colorful.Color
	Highlight float64
}

// Assigned reports whether the agent currently serves a target.
func (a *Agent) Assigned() bool { return a.AssignedTargetID != "" }

// Assign points the agent at a target and adopts its color.
func (a *Agent) Assign(t Target) {
	a.AssignedTargetID = t.ID
	a.Color = t.DisplayColor()
}

// Release returns the agent to the wandering pool.
func (a *Agent) Release() {
	a.AssignedTargetID = ""
	a.Color = NeutralColor
}

// Frame captures the renderer-facing state of the agent.
func (a *Agent) Frame() AgentFrame {
	return AgentFrame{
		ID:          a.ID,
		Position:    a.Position,
		Orientation: a.Orientation,
		Color:       a.Appearance.Color.Clamped().Hex(),
		Highlight:   a.Appearance.Highlight,
		Pose:        a.Pose,
		TargetID:    a.AssignedTargetID,
		Moving:      a.Moving,
	}
}
