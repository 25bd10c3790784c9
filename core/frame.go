package core

import "github.com/go-gl/mathgl/mgl64"

// Pose is the instantaneous limb and body pose of an agent. Limb values are
// rotations about the local X axis in radians; BodyBob is a vertical offset.
type Pose struct {
	LeftArm  float64 `json:"leftArm"`
	RightArm float64 `json:"rightArm"`
	LeftLeg  float64 `json:"leftLeg"`
	RightLeg float64 `json:"rightLeg"`
	BodyBob  float64 `json:"bodyBob"`
}

// AgentFrame is what a renderer samples for one agent once per frame.
type AgentFrame struct {
	ID          string     `json:"id"`
	Position    mgl64.Vec3 `json:"position"`
	Orientation mgl64.Quat `json:"orientation"`
	Color       string     `json:"color"`
	Highlight   float64    `json:"highlight"`
	Pose        Pose       `json:"pose"`
	TargetID    string     `json:"targetId,omitempty"`
	Moving      bool       `json:"moving"`
}
