package demand

import (
	"context"
	"math/rand/v2"
	"time"
)

// Params configures a Generator.
type Params struct {
	// Enabled turns the generator on in the demo driver.
	Enabled bool `yaml:"enabled"`
	// Interval is the tick period used by Run.
	Interval time.Duration `yaml:"interval"`

	StartPopulation int `yaml:"start_population"`
	MinPopulation   int `yaml:"min_population"`
	MaxStep         int `yaml:"max_step"`

	// ClickProbability is the chance that a tick emits one click.
	ClickProbability float64 `yaml:"click_probability"`
	// Features are the target ids clicks land on.
	Features []string `yaml:"features"`
}

// DefaultParams model a busy demo page.
var DefaultParams = Params{
	Enabled:          true,
	Interval:         2 * time.Second,
	StartPopulation:  124,
	MinPopulation:    50,
	MaxStep:          2,
	ClickProbability: 0.3,
}

// Sample is the generator state after one tick.
type Sample struct {
	Population int
	// Clicked is the target that received a click this tick, if any.
	Clicked string
}

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	Params Params
	// Source drives every random choice. Defaults to a randomly seeded PCG.
	Source rand.Source
	// Clicks receives generated clicks. Defaults to a fresh tally.
	Clicks *Clicks
}

// Generator produces synthetic population and click samples.
type Generator struct {
	params     Params
	rng        *rand.Rand
	population *Population
	clicks     *Clicks
}

// NewGenerator creates a Generator with optional overrides.
func NewGenerator(optFns ...func(o *GeneratorOptions)) *Generator {
	opts := GeneratorOptions{Params: DefaultParams}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Source == nil {
		opts.Source = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	if opts.Clicks == nil {
		opts.Clicks = NewClicks()
	}
	rng := rand.New(opts.Source)
	p := opts.Params
	return &Generator{
		params:     p,
		rng:        rng,
		population: NewPopulation(p.StartPopulation, p.MinPopulation, p.MaxStep, rng),
		clicks:     opts.Clicks,
	}
}

// Clicks returns the tally the generator writes to.
func (g *Generator) Clicks() *Clicks { return g.clicks }

// Population returns the current synthetic population.
func (g *Generator) Population() int { return g.population.Count() }

// Tick advances the population walk and maybe records one click.
func (g *Generator) Tick() Sample {
	s := Sample{Population: g.population.Step()}
	if len(g.params.Features) > 0 && g.rng.Float64() < g.params.ClickProbability {
		s.Clicked = g.params.Features[g.rng.IntN(len(g.params.Features))]
		g.clicks.Record(s.Clicked, 1)
	}
	return s
}

// Run ticks every Interval until ctx is done, handing each sample to sink on
// the calling goroutine. It returns ctx.Err().
func (g *Generator) Run(ctx context.Context, sink func(Sample)) error {
	interval := g.params.Interval
	if interval <= 0 {
		interval = DefaultParams.Interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			s := g.Tick()
			if sink != nil {
				sink(s)
			}
		}
	}
}
