package engine

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/crowdmesh/config"
	"github.com/hupe1980/crowdmesh/core"
	"github.com/hupe1980/crowdmesh/internal/testutil"
	"github.com/hupe1980/crowdmesh/logging"
	"github.com/hupe1980/crowdmesh/steering"
)

const dt = 1.0 / 60

func newTestEngine(t *testing.T, mutate func(o *Options)) *Engine {
	t.Helper()
	return New(func(o *Options) {
		o.Config = config.Default()
		o.Config.Capacity = 0
		o.Spawner = testutil.Spawner(1)
		if mutate != nil {
			mutate(o)
		}
	})
}

func run(e *Engine, frames int) {
	for i := 1; i <= frames; i++ {
		e.Step(steering.Frame{Elapsed: float64(i) * dt, Delta: dt})
	}
}

type countingRecorder struct {
	reconciles int
	frames     int
	lastSize   int
}

func (r *countingRecorder) ObserveReconcile(_ string, _, _, _, _, _ int, size, _ int, _ time.Duration) {
	r.reconciles++
	r.lastSize = size
}

func (r *countingRecorder) ObserveFrame(int, int, time.Duration) { r.frames++ }

func TestNew_ReconcilesInitialInputs(t *testing.T) {
	e := newTestEngine(t, func(o *Options) {
		o.Config.Capacity = 10
		o.Config.Targets = testutil.NewTargets().Add("signup", 4).Build()
	})

	pool := e.Pool()
	assert.Len(t, pool, 10)
	assert.Equal(t, 4, pool.AssignedTo("signup"))
	assert.Equal(t, 10, e.LastReport().Spawned)
}

func TestSetters_ChangeDetection(t *testing.T) {
	rec := &countingRecorder{}
	e := newTestEngine(t, func(o *Options) { o.Metrics = rec })
	require.Equal(t, 1, rec.reconciles)

	assert.True(t, e.SetCapacity(5))
	assert.False(t, e.SetCapacity(5))

	targets := testutil.NewTargets().Add("signup", 2).Build()
	assert.True(t, e.SetTargets(targets))
	assert.False(t, e.SetTargets(testutil.NewTargets().Add("signup", 2).Build()))

	assert.False(t, e.SetMode(core.ModeSynthetic))
	assert.Equal(t, 3, rec.reconciles)
	assert.Equal(t, 5, rec.lastSize)
}

func TestSetTargets_CopiesInput(t *testing.T) {
	e := newTestEngine(t, func(o *Options) { o.Config.Capacity = 4 })
	targets := testutil.NewTargets().Add("signup", 2).Build()
	e.SetTargets(targets)

	targets[0].DesiredCount = 4

	assert.Equal(t, 2, e.Targets()[0].DesiredCount)
	assert.Equal(t, 2, e.Pool().AssignedTo("signup"))
}

func TestSetSessions_IgnoresHeartbeats(t *testing.T) {
	e := newTestEngine(t, func(o *Options) { o.Config.Mode = core.ModeLive })
	now := time.Now()
	m := core.SessionMap{"s1": {SessionID: "s1", FocusTargetID: "signup", LastSeen: now}}
	require.True(t, e.SetSessions(m))

	beat := core.SessionMap{"s1": {SessionID: "s1", FocusTargetID: "signup", LastSeen: now.Add(time.Second)}}
	assert.False(t, e.SetSessions(beat))

	refocus := core.SessionMap{"s1": {SessionID: "s1", FocusTargetID: "nav"}}
	assert.True(t, e.SetSessions(refocus))
	assert.False(t, e.SetSessions(core.SessionMap{"s1": {FocusTargetID: "nav"}}))

	assert.True(t, e.SetSessions(nil))
	assert.Empty(t, e.Pool())
	assert.False(t, e.SetSessions(core.SessionMap{}))
}

func TestLiveMode_MirrorsSessions(t *testing.T) {
	e := newTestEngine(t, func(o *Options) {
		o.Config.Mode = core.ModeLive
		o.Config.Targets = testutil.NewTargets().Add("signup", 0).Add("nav", 0).Build()
	})

	e.SetSessions(testutil.Sessions("s1", "signup", "s2", "", "s3", "nav"))

	pool := e.Pool()
	require.Len(t, pool, 3)
	assert.Equal(t, map[string]string{"s1": "signup", "s2": "", "s3": "nav"}, testutil.AssignmentsOf(pool))
}

func TestSetMode_SwitchesPopulation(t *testing.T) {
	e := newTestEngine(t, func(o *Options) { o.Config.Capacity = 6 })
	e.SetSessions(testutil.Sessions("s1", "", "s2", ""))
	require.Len(t, e.Pool(), 6)

	assert.True(t, e.SetMode(core.ModeLive))
	pool := e.Pool()
	require.Len(t, pool, 2)
	assert.ElementsMatch(t, []string{"s1", "s2"}, []string{pool[0].ID, pool[1].ID})
	assert.Equal(t, core.ModeLive, e.Mode())

	assert.True(t, e.SetMode(core.ModeSynthetic))
	assert.Len(t, e.Pool(), 6)
}

func TestStep_AssignedAgentsArriveAndSettle(t *testing.T) {
	reg := testutil.StaticRegistry{"signup": mgl64.Vec3{5, 0, -3}}
	e := newTestEngine(t, func(o *Options) {
		o.Registry = reg
		o.Config.Capacity = 3
		o.Config.Targets = testutil.NewTargets().Colored("signup", 3, "#ff5f1f").Build()
	})

	run(e, 2000)

	params := e.steering
	for i, a := range e.Pool() {
		goal := reg["signup"].Add(steering.OrbitOffset(i, params))
		d := math.Hypot(a.Position.X()-goal.X(), a.Position.Z()-goal.Z())
		assert.LessOrEqual(t, d, params.AssignedStopRadius+1e-9, "agent %d", i)
		assert.False(t, a.Moving)
		assert.Equal(t, a.Pose.BodyBob, a.Position.Y())
	}
	for _, f := range e.Snapshot() {
		assert.Equal(t, "#ff5f1f", f.Color)
		assert.Equal(t, "signup", f.TargetID)
		assert.InDelta(t, params.AssignedHighlight, f.Highlight, 1e-6)
	}
}

func TestWanderAnchorsStayInConfiguredArea(t *testing.T) {
	area := core.Bounds{Width: 4, Depth: 2}
	e := newTestEngine(t, func(o *Options) {
		o.Config.Wander = area
		o.Config.Capacity = 6
		o.Spawner = nil
	})

	inside := func() {
		t.Helper()
		for _, a := range e.Pool() {
			assert.LessOrEqual(t, math.Abs(a.WanderAnchor.X()), area.Width/2)
			assert.LessOrEqual(t, math.Abs(a.WanderAnchor.Z()), area.Depth/2)
		}
	}
	inside()

	rerolled := false
	for i := 1; i <= 1200; i++ {
		e.Step(steering.Frame{Elapsed: float64(i) * dt, Delta: dt})
		inside()
	}
	for _, a := range e.Pool() {
		if a.WanderRolls > 1 {
			rerolled = true
		}
	}
	assert.True(t, rerolled)
}

func TestStep_ParallelMatchesSequential(t *testing.T) {
	build := func(workers int) *Engine {
		return newTestEngine(t, func(o *Options) {
			o.Registry = testutil.StaticRegistry{"signup": {0, 0, 0}, "nav": {10, 0, 10}}
			o.Config.Capacity = 37
			o.Config.FrameWorkers = workers
			o.Config.Targets = testutil.NewTargets().Add("signup", 9).Add("nav", 5).Build()
		})
	}
	seq, par := build(1), build(4)

	for i := 1; i <= 300; i++ {
		f := steering.Frame{Elapsed: float64(i) * dt, Delta: dt}
		assert.Equal(t, seq.Step(f), par.Step(f))
	}
	assert.Equal(t, seq.Snapshot(), par.Snapshot())
}

func TestStep_Stats(t *testing.T) {
	rec := &countingRecorder{}
	e := newTestEngine(t, func(o *Options) {
		o.Metrics = rec
		o.Config.Capacity = 8
	})

	stats := e.Step(steering.Frame{Elapsed: dt, Delta: dt})

	assert.Equal(t, 8, stats.Agents)
	assert.Equal(t, 8, stats.Moving)
	assert.Equal(t, 1, rec.frames)
}

func TestStep_EmptyPool(t *testing.T) {
	e := newTestEngine(t, func(o *Options) { o.Config.FrameWorkers = 8 })
	assert.Equal(t, FrameStats{}, e.Step(steering.Frame{Delta: dt}))
	assert.Empty(t, e.Snapshot())
}

func TestCallbacks(t *testing.T) {
	var reconciles, steps int
	var lines []string
	e := newTestEngine(t, func(o *Options) {
		o.Callbacks = []Callback{
			NewFunctionCallback(CallbackAfterReconcile, func(c *CallbackContext) error {
				reconciles++
				return nil
			}),
			NewFunctionCallback(CallbackAfterStep, func(c *CallbackContext) error {
				steps++
				assert.Equal(t, CallbackAfterStep, c.CallbackType)
				return errors.New("ignored")
			}),
		}
	})
	e.RegisterCallback(NewLoggingCallback(CallbackAfterReconcile, func(msg string) { lines = append(lines, msg) }))

	e.SetCapacity(3)
	stats := e.Step(steering.Frame{Delta: dt})

	assert.Equal(t, 2, reconciles)
	assert.Equal(t, 1, steps)
	assert.Equal(t, 3, stats.Agents, "callback errors never undo a pass")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "size=3")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	cfg := logging.DefaultLoggerConfig()
	cfg.Level = logging.LogLevelDebug
	cfg.Output = &buf
	logger := logging.NewLogger(cfg).WithComponent("engine")

	e := newTestEngine(t, func(o *Options) { o.Logger = logger })
	e.SetCapacity(-4)

	out := buf.String()
	assert.Contains(t, out, "Reconciliation completed")
	assert.Contains(t, out, "Clamped out of range input")
	assert.Empty(t, e.Pool())
}

func TestMaxCapacity(t *testing.T) {
	e := newTestEngine(t, func(o *Options) { o.Config.MaxCapacity = 20 })
	e.SetCapacity(1000)
	assert.Len(t, e.Pool(), 20)
	assert.Equal(t, 1000, e.Capacity())
}
