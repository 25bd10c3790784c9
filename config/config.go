// Package config loads crowd engine settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/crowdmesh/core"
	"github.com/hupe1980/crowdmesh/demand"
	"github.com/hupe1980/crowdmesh/locomotion"
	"github.com/hupe1980/crowdmesh/logging"
	"github.com/hupe1980/crowdmesh/reconcile"
	"github.com/hupe1980/crowdmesh/steering"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete engine and demo driver configuration.
type Config struct {
	Mode core.Mode `yaml:"mode"`
	// Capacity is the synthetic pool size.
	Capacity int `yaml:"capacity"`
	// MaxCapacity caps Capacity when positive.
	MaxCapacity int `yaml:"max_capacity"`
	// FrameWorkers above one steps the pool in parallel chunks.
	FrameWorkers int `yaml:"frame_workers"`
	// Wander is the area roaming agents pick anchors in, both at spawn and
	// on every re-roll.
	Wander core.Bounds `yaml:"wander"`

	Spawn      reconcile.SpawnParams `yaml:"spawn"`
	Steering   steering.Params       `yaml:"steering"`
	Locomotion locomotion.Params     `yaml:"locomotion"`

	Log     LogConfig     `yaml:"log"`
	Targets []core.Target `yaml:"targets"`
	Demand  demand.Params `yaml:"demand"`
}

// LogConfig selects logger verbosity and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Mode:         core.ModeSynthetic,
		Capacity:     50,
		MaxCapacity:  500,
		FrameWorkers: 1,
		Wander:       steering.DefaultParams.Wander,
		Spawn:        reconcile.DefaultSpawnParams,
		Steering:     steering.DefaultParams,
		Locomotion:   locomotion.DefaultParams,
		Log:          LogConfig{Level: "info", Format: "text"},
		Demand:       demand.DefaultParams,
	}
}

// Load reads a YAML file over Default and validates the result. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(content)
}

// Parse decodes YAML over Default and validates the result.
func Parse(content []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SpawnParams returns the spawn settings with the shared wander area.
func (c Config) SpawnParams() reconcile.SpawnParams {
	p := c.Spawn
	p.Wander = c.Wander
	return p
}

// SteeringParams returns the steering settings with the shared wander area.
func (c Config) SteeringParams() steering.Params {
	p := c.Steering
	p.Wander = c.Wander
	return p
}

// Validate reports the first setting that cannot drive the engine.
func (c Config) Validate() error {
	switch {
	case c.Capacity < 0:
		return invalid("capacity must not be negative, got %d", c.Capacity)
	case c.MaxCapacity < 0:
		return invalid("max_capacity must not be negative, got %d", c.MaxCapacity)
	case c.FrameWorkers < 0:
		return invalid("frame_workers must not be negative, got %d", c.FrameWorkers)
	case c.Spawn.RingMinRadius < 0 || c.Spawn.RingSpan < 0:
		return invalid("spawn ring must not be negative")
	case !positive(c.Wander):
		return invalid("wander bounds must be positive")
	case c.Steering.ReferenceFPS <= 0:
		return invalid("steering.reference_fps must be positive")
	case c.Steering.BaseSpeed < 0 || c.Steering.SpeedVariance < 0:
		return invalid("steering speeds must not be negative")
	case c.Steering.OrbitRadiusSlots < 1:
		return invalid("steering.orbit_radius_slots must be at least 1")
	case !unit(c.Steering.TurnRate) || !unit(c.Steering.ColorRate):
		return invalid("steering rates must be within [0, 1]")
	case !unit(c.Demand.ClickProbability):
		return invalid("demand.click_probability must be within [0, 1]")
	case c.Demand.Enabled && c.Demand.Interval <= 0:
		return invalid("demand.interval must be positive")
	case c.Demand.MinPopulation < 0 || c.Demand.MaxStep < 0:
		return invalid("demand population settings must not be negative")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	if f := c.Log.Format; f != "" && f != "json" && f != "text" {
		return invalid("log.format must be json or text, got %q", f)
	}
	for i, t := range c.Targets {
		if strings.TrimSpace(t.ID) == "" {
			return invalid("targets[%d] has no id", i)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func positive(b core.Bounds) bool { return b.Width > 0 && b.Depth > 0 }

func unit(v float64) bool { return v >= 0 && v <= 1 }
