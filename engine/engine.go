package engine

import (
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/crowdmesh/config"
	"github.com/hupe1980/crowdmesh/core"
	"github.com/hupe1980/crowdmesh/locomotion"
	"github.com/hupe1980/crowdmesh/logging"
	"github.com/hupe1980/crowdmesh/metrics"
	"github.com/hupe1980/crowdmesh/reconcile"
	"github.com/hupe1980/crowdmesh/steering"
)

// Options configures an Engine instance using the functional options pattern.
//
// Example:
//
//	eng := New(func(o *Options) {
//	    o.Config.Capacity = 120
//	    o.Registry = reg
//	    o.Logger = logger
//	})
type Options struct {
	// Config holds the initial inputs and all tuning parameters.
	// Defaults to config.Default().
	Config config.Config

	// Registry resolves live target positions. Defaults to a registry that
	// knows no targets, which makes assigned agents hold their ground.
	Registry core.TargetRegistry

	// Spawner creates new agents. Defaults to a randomly seeded spawner
	// using Config.SpawnParams().
	Spawner *reconcile.Spawner

	// Logger provides structured logging. Defaults to NoOp.
	Logger logging.Logger

	// Metrics receives reconcile and frame statistics. Defaults to metrics.Nop().
	Metrics metrics.Recorder

	// Callbacks are registered on the engine's callback manager.
	Callbacks []Callback
}

// FrameStats summarizes one frame pass.
type FrameStats struct {
	Agents int
	Moving int
}

// Engine is the mode controller: it owns the inputs and the agent pool.
type Engine struct {
	mu sync.Mutex

	cfg       config.Config
	steering  steering.Params
	registry  core.TargetRegistry
	spawner   *reconcile.Spawner
	logger    logging.Logger
	metrics   metrics.Recorder
	callbacks *CallbackManager

	// Inputs of the next reconciliation.
	targets  []core.Target
	capacity int
	sessions core.SessionMap
	mode     core.Mode

	pool       reconcile.Pool
	lastReport reconcile.Report
}

// New creates an Engine and runs the first reconciliation from the
// configured mode, capacity and targets.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:   config.Default(),
		Registry: core.EmptyRegistry{},
		Logger:   logging.NoOpLogger{},
		Metrics:  metrics.Nop(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Registry == nil {
		opts.Registry = core.EmptyRegistry{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop()
	}
	if opts.Spawner == nil {
		params := opts.Config.SpawnParams()
		opts.Spawner = reconcile.NewSpawner(func(o *reconcile.SpawnerOptions) { o.Params = params })
	}

	callbacks := NewCallbackManager()
	for _, cb := range opts.Callbacks {
		callbacks.RegisterCallback(cb)
	}

	e := &Engine{
		cfg:       opts.Config,
		steering:  opts.Config.SteeringParams(),
		registry:  opts.Registry,
		spawner:   opts.Spawner,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		callbacks: callbacks,
		targets:   slices.Clone(opts.Config.Targets),
		capacity:  opts.Config.Capacity,
		sessions:  core.SessionMap{},
		mode:      opts.Config.Mode,
		pool:      reconcile.Pool{},
	}
	e.reconcileLocked()
	return e
}

// RegisterCallback adds a lifecycle callback.
func (e *Engine) RegisterCallback(cb Callback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks.RegisterCallback(cb)
}

// SetTargets replaces the target list. It reports whether the list differed
// and a reconciliation ran.
func (e *Engine) SetTargets(targets []core.Target) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if slices.Equal(e.targets, targets) {
		return false
	}
	e.targets = slices.Clone(targets)
	e.reconcileLocked()
	return true
}

// SetCapacity changes the synthetic pool size.
func (e *Engine) SetCapacity(n int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.capacity == n {
		return false
	}
	e.capacity = n
	e.reconcileLocked()
	return true
}

// SetSessions replaces the live session map. Only membership and focus
// count as a change; refreshed timestamps do not trigger a pass.
func (e *Engine) SetSessions(m core.SessionMap) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sameSessions(e.sessions, m) {
		return false
	}
	e.sessions = m.Clone()
	if e.sessions == nil {
		e.sessions = core.SessionMap{}
	}
	e.reconcileLocked()
	return true
}

// SetMode switches between synthetic and live population.
func (e *Engine) SetMode(m core.Mode) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == m {
		return false
	}
	e.logger.Info("Switching mode", "from", e.mode.String(), "to", m.String())
	e.mode = m
	e.reconcileLocked()
	return true
}

// Reconcile forces a pass over the current inputs and returns its report.
func (e *Engine) Reconcile() reconcile.Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reconcileLocked()
	return e.lastReport
}

// reconcileLocked runs one pass; caller must hold e.mu.
func (e *Engine) reconcileLocked() {
	start := time.Now()
	next, report := reconcile.Reconcile(e.pool, reconcile.Inputs{
		Targets:     e.targets,
		Capacity:    e.capacity,
		MaxCapacity: e.cfg.MaxCapacity,
		Sessions:    e.sessions,
		Mode:        e.mode,
	}, e.spawner)
	dur := time.Since(start)

	e.pool = next
	e.lastReport = report

	if report.Clamped > 0 {
		e.logger.Warn("Clamped out of range input", "count", report.Clamped, "capacity", e.capacity)
	}
	if report.Duplicates > 0 {
		e.logger.Warn("Replaced duplicate target records", "count", report.Duplicates)
	}
	e.logReconcile(report, dur)
	e.metrics.ObserveReconcile(report.Mode.String(),
		report.Spawned, report.Retired, report.Orphaned, report.Recruited, report.Released,
		report.Size, report.Assigned, dur)

	if err := e.callbacks.ExecuteCallbacks(CallbackAfterReconcile, &CallbackContext{Report: report}); err != nil {
		e.logger.Warn("Callback failed", "error", err)
	}
}

func (e *Engine) logReconcile(r reconcile.Report, dur time.Duration) {
	if cl, ok := e.logger.(*logging.CrowdLogger); ok {
		cl.LogReconcile(logging.ReconcileSummary{
			Mode:      r.Mode.String(),
			Spawned:   r.Spawned,
			Retired:   r.Retired,
			Orphaned:  r.Orphaned,
			Recruited: r.Recruited,
			Released:  r.Released,
			Size:      r.Size,
			Assigned:  r.Assigned,
		}, dur)
		return
	}
	e.logger.Debug("Reconciliation completed",
		"mode", r.Mode.String(), "pool_size", r.Size, "assigned", r.Assigned,
		"spawned", r.Spawned, "retired", r.Retired, "duration", dur)
}

// Step advances every agent by one frame: steering, then locomotion.
func (e *Engine) Step(f steering.Frame) FrameStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	stats := FrameStats{Agents: len(e.pool)}
	workers := e.cfg.FrameWorkers
	if workers > 1 && len(e.pool) > workers {
		stats.Moving = e.stepParallel(f, workers)
	} else {
		stats.Moving = e.stepRange(f, 0, len(e.pool))
	}
	dur := time.Since(start)

	if cl, ok := e.logger.(*logging.CrowdLogger); ok {
		cl.LogFrame(stats.Agents, stats.Moving, dur)
	}
	e.metrics.ObserveFrame(stats.Agents, stats.Moving, dur)

	if err := e.callbacks.ExecuteCallbacks(CallbackAfterStep, &CallbackContext{Frame: f, Stats: stats}); err != nil {
		e.logger.Warn("Callback failed", "error", err)
	}
	return stats
}

// stepRange steps agents [lo, hi) and returns how many moved.
func (e *Engine) stepRange(f steering.Frame, lo, hi int) int {
	moving := 0
	for i := lo; i < hi; i++ {
		a := &e.pool[i]
		if steering.Steer(a, i, e.registry, f, e.steering) {
			moving++
		}
		locomotion.Apply(a, f.Elapsed, e.cfg.Locomotion)
	}
	return moving
}

func (e *Engine) stepParallel(f steering.Frame, workers int) int {
	n := len(e.pool)
	chunk := (n + workers - 1) / workers
	counts := make([]int, (n+chunk-1)/chunk)

	var g errgroup.Group
	g.SetLimit(workers)
	for c := range counts {
		lo := c * chunk
		hi := min(lo+chunk, n)
		g.Go(func() error {
			counts[c] = e.stepRange(f, lo, hi)
			return nil
		})
	}
	_ = g.Wait()

	moving := 0
	for _, m := range counts {
		moving += m
	}
	return moving
}

// Snapshot returns the renderer-facing frame of every agent in pool order.
func (e *Engine) Snapshot() []core.AgentFrame {
	e.mu.Lock()
	defer e.mu.Unlock()
	frames := make([]core.AgentFrame, len(e.pool))
	for i := range e.pool {
		frames[i] = e.pool[i].Frame()
	}
	return frames
}

// Pool returns a copy of the current pool.
func (e *Engine) Pool() reconcile.Pool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Clone()
}

// Mode returns the active mode.
func (e *Engine) Mode() core.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Capacity returns the requested synthetic capacity before clamping.
func (e *Engine) Capacity() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.capacity
}

// Targets returns a copy of the current target list.
func (e *Engine) Targets() []core.Target {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.targets)
}

// LastReport returns the report of the most recent reconciliation.
func (e *Engine) LastReport() reconcile.Report {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastReport
}

// sameSessions compares membership and focus, ignoring timestamps.
func sameSessions(a, b core.SessionMap) bool {
	return maps.EqualFunc(a, b, func(x, y core.SessionRecord) bool {
		return x.FocusTargetID == y.FocusTargetID
	})
}
