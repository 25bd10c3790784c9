package crowdmesh

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/crowdmesh/core"
	"github.com/hupe1980/crowdmesh/reconcile"
	"github.com/hupe1980/crowdmesh/steering"
)

func newTestMesh(mutate func(o *Options)) *CrowdMesh {
	return New(func(o *Options) {
		o.Spawner = reconcile.NewSpawner(func(s *reconcile.SpawnerOptions) {
			s.Source = rand.NewPCG(1, 2)
		})
		o.Config.Capacity = 0
		if mutate != nil {
			mutate(o)
		}
	})
}

func TestNew_Defaults(t *testing.T) {
	m := newTestMesh(nil)
	assert.NotNil(t, m.Engine())
	assert.NotNil(t, m.Registry())
	assert.NotNil(t, m.Sessions())
	assert.NotNil(t, m.Clicks())
	assert.Empty(t, m.Snapshot())
}

func TestNew_NilCollaboratorsFallBackToDefaults(t *testing.T) {
	m := newTestMesh(func(o *Options) {
		o.Config.Capacity = 3
		o.Registry = nil
		o.Sessions = nil
		o.Clicks = nil
		o.Logger = nil
		o.Metrics = nil
	})
	require.NotNil(t, m.Registry())
	require.NotNil(t, m.Sessions())
	require.NotNil(t, m.Clicks())

	m.SetTargets([]core.Target{{ID: "signup", DesiredCount: 1, Visible: true}})
	m.Registry().Register("signup", mgl64.Vec3{2, 0, 2})
	require.NotPanics(t, func() {
		m.Step(steering.Frame{Elapsed: 1.0 / 60, Delta: 1.0 / 60})
	})

	assert.Len(t, m.Snapshot(), 3)
	assert.Equal(t, 1, m.Engine().Pool().AssignedTo("signup"))
	assert.False(t, m.SyncSessions())
}

func TestLiveSessionsFlowIntoPool(t *testing.T) {
	m := newTestMesh(func(o *Options) { o.Config.Mode = core.ModeLive })
	m.SetTargets([]core.Target{{ID: "signup", Color: "#00ff00", Visible: true}})
	m.Registry().Register("signup", mgl64.Vec3{0, 0, 0})

	m.Sessions().Observe("s1", "signup")
	m.Sessions().Observe("s2", "")
	m.Step(steering.Frame{Elapsed: 1.0 / 60, Delta: 1.0 / 60})

	frames := m.Snapshot()
	require.Len(t, frames, 2)
	byID := map[string]core.AgentFrame{}
	for _, f := range frames {
		byID[f.ID] = f
	}
	assert.Equal(t, "signup", byID["s1"].TargetID)
	assert.Empty(t, byID["s2"].TargetID)

	assert.False(t, m.SyncSessions(), "unchanged tracker must not reconcile")

	m.Sessions().Forget("s2")
	assert.True(t, m.SyncSessions())
	assert.Len(t, m.Snapshot(), 1)
}

func TestApplyClicks(t *testing.T) {
	m := newTestMesh(func(o *Options) { o.Config.Capacity = 10 })
	m.SetTargets([]core.Target{{ID: "signup", Visible: true}, {ID: "nav", Visible: true}})

	m.Clicks().Record("signup", 3)
	m.Clicks().Record("nav", 1)
	require.True(t, m.ApplyClicks())
	assert.False(t, m.ApplyClicks())

	pool := m.Engine().Pool()
	assert.Equal(t, 3, pool.AssignedTo("signup"))
	assert.Equal(t, 1, pool.AssignedTo("nav"))
}

func TestSetMode_PicksUpTrackedSessions(t *testing.T) {
	m := newTestMesh(func(o *Options) { o.Config.Capacity = 4 })
	m.Sessions().Observe("s1", "")
	m.SyncSessions()
	require.Len(t, m.Snapshot(), 4)

	assert.True(t, m.SetMode(core.ModeLive))
	frames := m.Snapshot()
	require.Len(t, frames, 1)
	assert.Equal(t, "s1", frames[0].ID)

	assert.True(t, m.SetCapacity(8))
	assert.Len(t, m.Snapshot(), 1, "capacity is ignored in live mode")
}
