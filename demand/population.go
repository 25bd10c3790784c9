package demand

import "math/rand/v2"

// Population is a random walk of the synthetic viewer count.
type Population struct {
	count   int
	floor   int
	maxStep int
	rng     *rand.Rand
}

// NewPopulation starts a walk at start that never drops below floor and
// moves by at most maxStep per step.
func NewPopulation(start, floor, maxStep int, rng *rand.Rand) *Population {
	if floor < 0 {
		floor = 0
	}
	if maxStep < 0 {
		maxStep = 0
	}
	return &Population{count: max(start, floor), floor: floor, maxStep: maxStep, rng: rng}
}

// Count returns the current population.
func (p *Population) Count() int { return p.count }

// Step moves the walk by a uniform amount in [-maxStep, maxStep] and returns
// the new count.
func (p *Population) Step() int {
	if p.maxStep > 0 {
		p.count += p.rng.IntN(2*p.maxStep+1) - p.maxStep
	}
	if p.count < p.floor {
		p.count = p.floor
	}
	return p.count
}
