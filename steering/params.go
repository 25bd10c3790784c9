package steering

import "github.com/hupe1980/crowdmesh/core"

// Params tunes steering, orbiting and appearance blending.
type Params struct {
	// ReferenceFPS is the frame rate the per-frame quantities below are
	// expressed at.
	ReferenceFPS float64 `yaml:"reference_fps"`

	BaseSpeed     float64 `yaml:"base_speed"`
	SpeedVariance float64 `yaml:"speed_variance"`

	// ArrivalRadius is how close a wanderer gets before re-rolling its anchor.
	ArrivalRadius      float64 `yaml:"arrival_radius"`
	WanderStopRadius   float64 `yaml:"wander_stop_radius"`
	AssignedStopRadius float64 `yaml:"assigned_stop_radius"`

	OrbitAngleStep   float64 `yaml:"orbit_angle_step"`
	OrbitBaseRadius  float64 `yaml:"orbit_base_radius"`
	OrbitRadiusSlots int     `yaml:"orbit_radius_slots"`

	TurnRate          float64 `yaml:"turn_rate"`
	ColorRate         float64 `yaml:"color_rate"`
	AssignedHighlight float64 `yaml:"assigned_highlight"`
	WanderHighlight   float64 `yaml:"wander_highlight"`

	// Wander bounds re-rolled anchors. Config files set it through the
	// top-level wander key.
	Wander core.Bounds `yaml:"-"`
}

// DefaultParams mirror the look the crowd was tuned for at 60 fps.
var DefaultParams = Params{
	ReferenceFPS:       60,
	BaseSpeed:          0.08,
	SpeedVariance:      0.05,
	ArrivalRadius:      2,
	WanderStopRadius:   0.5,
	AssignedStopRadius: 0.2,
	OrbitAngleStep:     0.5,
	OrbitBaseRadius:    1.5,
	OrbitRadiusSlots:   3,
	TurnRate:           0.1,
	ColorRate:          0.1,
	AssignedHighlight:  0.5,
	WanderHighlight:    0,
	Wander:             core.Bounds{Width: 60, Depth: 40},
}

// Frame is the timing of one rendered frame, in seconds.
type Frame struct {
	Elapsed float64
	Delta   float64
}

// frames converts the frame delta into reference frames.
func (p Params) frames(f Frame) float64 {
	if f.Delta <= 0 || p.ReferenceFPS <= 0 {
		return 0
	}
	return f.Delta * p.ReferenceFPS
}
