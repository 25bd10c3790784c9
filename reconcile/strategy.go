package reconcile

import "github.com/hupe1980/crowdmesh/core"

// Strategy is the mode specific half of a reconciliation pass. Both
// strategies share ClearOrphans and the per-frame motion code.
type Strategy interface {
	// Name identifies the strategy in logs and metrics.
	Name() string
	// Resize grows or shrinks the pool toward the mode's population signal.
	Resize(pool Pool, in Inputs, idx targetIndex, sp *Spawner, r *Report) Pool
	// Assign resolves target assignments on an orphan-free pool in place.
	Assign(pool Pool, in Inputs, idx targetIndex, r *Report)
}

// StrategyFor selects the strategy of a mode. Unknown modes fall back to
// synthetic.
func StrategyFor(mode core.Mode) Strategy {
	if mode == core.ModeLive {
		return Live{}
	}
	return Synthetic{}
}
