// Package crowdmesh provides a high-level façade over the crowd engine and
// its collaborators (target registry, live session tracker, demand tally,
// logging and metrics). Most applications interact with this package by:
//  1. Creating a CrowdMesh via New() (optionally overriding defaults)
//  2. Publishing target positions through Registry() as the scene renders
//  3. Feeding targets, capacity or sessions as they change
//  4. Calling Step once per frame and rendering Snapshot()
//
// The façade delegates pool ownership to engine.Engine while keeping setup
// and per-frame usage concise. All defaults are in-memory and safe for local
// development and testing.
package crowdmesh

import (
	"sync"

	"github.com/hupe1980/crowdmesh/config"
	"github.com/hupe1980/crowdmesh/core"
	"github.com/hupe1980/crowdmesh/demand"
	"github.com/hupe1980/crowdmesh/engine"
	"github.com/hupe1980/crowdmesh/logging"
	"github.com/hupe1980/crowdmesh/metrics"
	"github.com/hupe1980/crowdmesh/reconcile"
	"github.com/hupe1980/crowdmesh/registry"
	"github.com/hupe1980/crowdmesh/session"
	"github.com/hupe1980/crowdmesh/steering"
)

// Options configures the CrowdMesh instance.
type Options struct {
	// Config holds initial inputs and tuning. Defaults to config.Default().
	Config config.Config

	// Registry, Sessions and Clicks default to fresh in-memory instances.
	Registry *registry.InMemoryRegistry
	Sessions *session.Tracker
	Clicks   *demand.Clicks

	// Spawner defaults to a randomly seeded spawner.
	Spawner *reconcile.Spawner

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Metrics (defaults to metrics.Nop() if nil)
	Metrics metrics.Recorder

	Callbacks []engine.Callback
}

// CrowdMesh is the high-level façade aggregating the engine and collaborators.
type CrowdMesh struct {
	opts   Options
	engine *engine.Engine

	mu             sync.Mutex
	sessionVersion uint64
}

// New creates a new CrowdMesh instance with optional overrides.
func New(optFns ...func(o *Options)) *CrowdMesh {
	opts := Options{
		Config:   config.Default(),
		Registry: registry.NewInMemoryRegistry(),
		Sessions: session.NewTracker(),
		Clicks:   demand.NewClicks(),
		Logger:   logging.NoOpLogger{},
		Metrics:  metrics.Nop(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Registry == nil {
		opts.Registry = registry.NewInMemoryRegistry()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewTracker()
	}
	if opts.Clicks == nil {
		opts.Clicks = demand.NewClicks()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop()
	}

	e := engine.New(func(o *engine.Options) {
		o.Config = opts.Config
		o.Registry = opts.Registry
		o.Spawner = opts.Spawner
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
		o.Callbacks = opts.Callbacks
	})

	m := &CrowdMesh{opts: opts, engine: e}
	m.SyncSessions()
	return m
}

// Engine exposes the underlying engine.
func (m *CrowdMesh) Engine() *engine.Engine { return m.engine }

// Registry is where the renderer publishes target positions.
func (m *CrowdMesh) Registry() *registry.InMemoryRegistry { return m.opts.Registry }

// Sessions is the live session tracker fed by the presence collaborator.
func (m *CrowdMesh) Sessions() *session.Tracker { return m.opts.Sessions }

// Clicks is the interaction tally that ApplyClicks turns into demand.
func (m *CrowdMesh) Clicks() *demand.Clicks { return m.opts.Clicks }

// SetTargets replaces the tracked targets.
func (m *CrowdMesh) SetTargets(targets []core.Target) bool { return m.engine.SetTargets(targets) }

// SetCapacity changes the synthetic population.
func (m *CrowdMesh) SetCapacity(n int) bool { return m.engine.SetCapacity(n) }

// SetMode switches between synthetic and live population.
func (m *CrowdMesh) SetMode(mode core.Mode) bool {
	changed := m.engine.SetMode(mode)
	m.SyncSessions()
	return changed
}

// ApplyClicks sets every target's desired count from the click tally.
func (m *CrowdMesh) ApplyClicks() bool {
	return m.engine.SetTargets(m.opts.Clicks.Apply(m.engine.Targets()))
}

// SyncSessions pushes the tracker's sessions into the engine when they
// changed since the last sync. It reports whether a reconciliation ran.
func (m *CrowdMesh) SyncSessions() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.opts.Sessions.Version()
	if v == m.sessionVersion {
		return false
	}
	m.sessionVersion = v
	return m.engine.SetSessions(m.opts.Sessions.Snapshot())
}

// Step syncs sessions and advances the crowd by one frame.
func (m *CrowdMesh) Step(f steering.Frame) engine.FrameStats {
	m.SyncSessions()
	return m.engine.Step(f)
}

// Snapshot returns the renderer-facing frame of every agent.
func (m *CrowdMesh) Snapshot() []core.AgentFrame { return m.engine.Snapshot() }
