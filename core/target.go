package core

import "math"

// Target is a tracked feature. DesiredCount is the demand signal: the number
// of agents that should gather around it in synthetic mode.
//
// The live world position of a target is owned by the renderer and only
// reachable through a TargetRegistry.
type Target struct {
	ID           string `json:"id" yaml:"id"`
	Label        string `json:"label,omitempty" yaml:"label,omitempty"`
	DesiredCount int    `json:"desiredCount" yaml:"desired_count"`
	Color        string `json:"color,omitempty" yaml:"color,omitempty"`
	Visible      bool   `json:"visible" yaml:"visible"`
}

// DisplayColor returns the target color, or FallbackTargetColor when unset.
func (t Target) DisplayColor() string {
	if t.Color == "" {
		return FallbackTargetColor
	}
	return t.Color
}

// Scale is the size a renderer gives the target bubble for its crowd:
// one unit plus 5% per desired occupant, capped at three.
func (t Target) Scale() float64 {
	count := max(t.DesiredCount, 0)
	return math.Min(1+float64(count)*0.05, 3)
}
