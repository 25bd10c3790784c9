package reconcile

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/hupe1980/crowdmesh/core"
)

// SpawnParams shape where new agents appear and roam.
type SpawnParams struct {
	// RingMinRadius and RingSpan define the perimeter annulus agents spawn on.
	RingMinRadius float64 `yaml:"ring_min_radius"`
	RingSpan      float64 `yaml:"ring_span"`
	// Wander bounds the first anchor. Config files set it through the
	// top-level wander key.
	Wander core.Bounds `yaml:"-"`
}

// DefaultSpawnParams spawn agents 30 to 50 units from the origin and let them
// roam a 60 x 40 area.
var DefaultSpawnParams = SpawnParams{
	RingMinRadius: 30,
	RingSpan:      20,
	Wander:        core.Bounds{Width: 60, Depth: 40},
}

// SpawnerOptions configures a Spawner.
type SpawnerOptions struct {
	Params SpawnParams
	// Source feeds spawn positions, speeds and seeds. Defaults to a randomly
	// seeded PCG.
	Source rand.Source
	// NewID generates ids for synthetic agents. Defaults to uuid.NewString.
	NewID func() string
}

// Spawner creates agents on the perimeter ring. It is the only source of
// randomness in a reconciliation pass; seeding it makes passes reproducible.
type Spawner struct {
	params SpawnParams
	rng    *rand.Rand
	newID  func() string
}

// NewSpawner constructs a Spawner with optional overrides.
func NewSpawner(optFns ...func(o *SpawnerOptions)) *Spawner {
	opts := SpawnerOptions{Params: DefaultSpawnParams}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Source == nil {
		opts.Source = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Spawner{params: opts.Params, rng: rand.New(opts.Source), newID: opts.NewID}
}

// Params returns the spawn parameters in use.
func (s *Spawner) Params() SpawnParams { return s.params }

// Spawn creates an unassigned, neutral agent. An empty id asks the spawner
// to generate one.
func (s *Spawner) Spawn(id string) core.Agent {
	if id == "" {
		id = s.newID()
	}
	angle := s.rng.Float64() * 2 * math.Pi
	radius := s.params.RingMinRadius + s.rng.Float64()*s.params.RingSpan

	a := core.Agent{
		ID:          id,
		Position:    mgl64.Vec3{math.Cos(angle) * radius, 0, math.Sin(angle) * radius},
		Orientation: mgl64.QuatIdent(),
		Color:       core.NeutralColor,
		Appearance:  core.Appearance{Color: core.Neutral()},
		SpeedFactor: s.rng.Float64(),
		Seed:        s.rng.Uint64(),
	}
	a.RollWanderAnchor(s.params.Wander)
	return a
}
