package core

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"synthetic", ModeSynthetic, false},
		{"Demo", ModeSynthetic, false},
		{"", ModeSynthetic, false},
		{" live ", ModeLive, false},
		{"chaos", ModeSynthetic, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "mode(7)", Mode(7).String())
}

func TestMode_TextRoundTrip(t *testing.T) {
	text, err := ModeLive.MarshalText()
	require.NoError(t, err)

	var m Mode
	require.NoError(t, m.UnmarshalText(text))
	assert.Equal(t, ModeLive, m)
	assert.Error(t, m.UnmarshalText([]byte("nope")))
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, "#ff5f1f", ParseColor("#ff5f1f").Hex())
	assert.Equal(t, "#ff5f1f", ParseColor("ff5f1f").Hex())
	assert.Equal(t, "#ffffff", ParseColor("#fff").Hex())
	assert.Equal(t, NeutralColor, ParseColor("not-a-color").Hex())
	assert.Equal(t, NeutralColor, ParseColor("").Hex())
	assert.Equal(t, NeutralColor, Neutral().Hex())
}

func TestTarget_DisplayColorAndScale(t *testing.T) {
	assert.Equal(t, FallbackTargetColor, Target{}.DisplayColor())
	assert.Equal(t, "#bc13fe", Target{Color: "#bc13fe"}.DisplayColor())

	assert.Equal(t, 1.0, Target{DesiredCount: -3}.Scale())
	assert.InDelta(t, 1.5, Target{DesiredCount: 10}.Scale(), 1e-12)
	assert.Equal(t, 3.0, Target{DesiredCount: 100}.Scale())
}

func TestAgent_AssignRelease(t *testing.T) {
	a := Agent{ID: "a"}
	a.Assign(Target{ID: "signup"})
	assert.True(t, a.Assigned())
	assert.Equal(t, FallbackTargetColor, a.Color)

	a.Release()
	assert.False(t, a.Assigned())
	assert.Equal(t, NeutralColor, a.Color)
}

func TestAgent_Frame(t *testing.T) {
	a := Agent{
		ID:               "a",
		Position:         mgl64.Vec3{1, 2, 3},
		Orientation:      mgl64.QuatIdent(),
		AssignedTargetID: "signup",
		Appearance:       Appearance{Color: ParseColor("#00ff00"), Highlight: 0.25},
		Moving:           true,
		Pose:             Pose{BodyBob: 2},
	}
	f := a.Frame()
	assert.Equal(t, AgentFrame{
		ID:          "a",
		Position:    mgl64.Vec3{1, 2, 3},
		Orientation: mgl64.QuatIdent(),
		Color:       "#00ff00",
		Highlight:   0.25,
		Pose:        Pose{BodyBob: 2},
		TargetID:    "signup",
		Moving:      true,
	}, f)
}

func TestRollWanderAnchor_DeterministicAndBounded(t *testing.T) {
	b := Bounds{Width: 60, Depth: 40}
	a := Agent{Seed: 42}
	c := Agent{Seed: 42}
	for range 50 {
		a.RollWanderAnchor(b)
		c.RollWanderAnchor(b)
		assert.Equal(t, a.WanderAnchor, c.WanderAnchor)
		assert.LessOrEqual(t, abs(a.WanderAnchor.X()), 30.0)
		assert.LessOrEqual(t, abs(a.WanderAnchor.Z()), 20.0)
		assert.Zero(t, a.WanderAnchor.Y())
	}
	assert.EqualValues(t, 50, a.WanderRolls)
}

func TestBounds_Sample(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	p := Bounds{Width: 10, Depth: 2}.Sample(rng)
	assert.LessOrEqual(t, abs(p.X()), 5.0)
	assert.LessOrEqual(t, abs(p.Z()), 1.0)
}

func TestSessionMap(t *testing.T) {
	var empty SessionMap
	assert.Nil(t, empty.Clone())

	m := SessionMap{"s1": {SessionID: "s1", FocusTargetID: "signup", LastSeen: time.Unix(10, 0)}}
	c := m.Clone()
	delete(c, "s1")
	assert.Len(t, m, 1)

	focus, ok := m.Focus("s1")
	assert.True(t, ok)
	assert.Equal(t, "signup", focus)
	_, ok = m.Focus("s2")
	assert.False(t, ok)
}

func TestRegistries(t *testing.T) {
	_, ok := EmptyRegistry{}.Position("x")
	assert.False(t, ok)

	reg := RegistryFunc(func(id string) (mgl64.Vec3, bool) { return mgl64.Vec3{1, 0, 0}, id == "x" })
	p, ok := reg.Position("x")
	assert.True(t, ok)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, p)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
