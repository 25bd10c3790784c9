package reconcile

import "github.com/hupe1980/crowdmesh/core"

// Report summarizes what a reconciliation pass changed. It feeds logging and
// metrics; nothing in it is needed to use the resulting pool.
type Report struct {
	Mode      core.Mode
	Spawned   int
	Retired   int
	Orphaned  int
	Recruited int
	Released  int
	// Unmet is the total demand no free agent was left to satisfy.
	Unmet int
	// Clamped counts negative or oversized numbers forced into range.
	Clamped int
	// Duplicates counts target records replaced by a later one with the same id.
	Duplicates int

	Size     int
	Assigned int
}

// Changed reports whether the pass altered pool membership or assignments.
func (r Report) Changed() bool {
	return r.Spawned+r.Retired+r.Orphaned+r.Recruited+r.Released > 0
}

// Reconcile derives the next pool from prev and the current inputs. prev is
// left untouched. Calling Reconcile again with its own output and the same
// inputs returns an identical pool.
//
// sp supplies new agents; a nil spawner gets a randomly seeded default.
func Reconcile(prev Pool, in Inputs, sp *Spawner) (Pool, Report) {
	if sp == nil {
		sp = NewSpawner()
	}

	r := Report{Mode: in.Mode}
	in = normalize(in, &r)
	idx := indexTargets(in.Targets)
	strategy := StrategyFor(in.Mode)

	pool := prev.Clone()
	pool = strategy.Resize(pool, in, idx, sp, &r)
	r.Orphaned = ClearOrphans(pool, idx)
	strategy.Assign(pool, in, idx, &r)

	if pool == nil {
		pool = Pool{}
	}
	r.Size = len(pool)
	r.Assigned = pool.Assigned()
	return pool, r
}
