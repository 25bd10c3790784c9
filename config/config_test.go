package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/crowdmesh/core"
	"github.com/hupe1980/crowdmesh/steering"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crowd.yaml")
	content := `
mode: live
capacity: 80
frame_workers: 4
steering:
  base_speed: 0.1
demand:
  interval: 500ms
  features: [signup, nav]
targets:
  - id: signup
    label: Sign up
    desired_count: 3
    color: "#ff5f1f"
    visible: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, core.ModeLive, cfg.Mode)
	assert.Equal(t, 80, cfg.Capacity)
	assert.Equal(t, 4, cfg.FrameWorkers)
	assert.Equal(t, 0.1, cfg.Steering.BaseSpeed)
	assert.Equal(t, steering.DefaultParams.TurnRate, cfg.Steering.TurnRate)
	assert.Equal(t, 500*time.Millisecond, cfg.Demand.Interval)
	assert.Equal(t, []string{"signup", "nav"}, cfg.Demand.Features)
	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, core.Target{ID: "signup", Label: "Sign up", DesiredCount: 3, Color: "#ff5f1f", Visible: true}, cfg.Targets[0])
}

func TestParse_WanderSharedBySpawnAndSteering(t *testing.T) {
	cfg, err := Parse([]byte("wander:\n  width: 8\n  depth: 4\n"))
	require.NoError(t, err)

	want := core.Bounds{Width: 8, Depth: 4}
	assert.Equal(t, want, cfg.Wander)
	assert.Equal(t, want, cfg.SpawnParams().Wander)
	assert.Equal(t, want, cfg.SteeringParams().Wander)
	assert.Equal(t, cfg.Spawn.RingMinRadius, cfg.SpawnParams().RingMinRadius)
	assert.Equal(t, cfg.Steering.BaseSpeed, cfg.SteeringParams().BaseSpeed)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_UnknownMode(t *testing.T) {
	_, err := Parse([]byte("mode: chaos\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative capacity", func(c *Config) { c.Capacity = -1 }},
		{"negative max capacity", func(c *Config) { c.MaxCapacity = -1 }},
		{"negative workers", func(c *Config) { c.FrameWorkers = -2 }},
		{"zero wander", func(c *Config) { c.Wander.Width = 0 }},
		{"zero fps", func(c *Config) { c.Steering.ReferenceFPS = 0 }},
		{"no orbit slots", func(c *Config) { c.Steering.OrbitRadiusSlots = 0 }},
		{"turn rate above one", func(c *Config) { c.Steering.TurnRate = 1.5 }},
		{"click probability", func(c *Config) { c.Demand.ClickProbability = -0.1 }},
		{"zero interval", func(c *Config) { c.Demand.Interval = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"target without id", func(c *Config) { c.Targets = []core.Target{{Visible: true}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
