package reconcile

import "github.com/hupe1980/crowdmesh/core"

// Inputs are everything a reconciliation pass depends on besides the
// previous pool.
type Inputs struct {
	Targets  []core.Target
	Capacity int
	// MaxCapacity caps Capacity when positive.
	MaxCapacity int
	Sessions    core.SessionMap
	Mode        core.Mode
}

// normalize clamps numeric input and resolves duplicate target ids. A later
// record for an id replaces the earlier one but keeps its slot in the order.
func normalize(in Inputs, r *Report) Inputs {
	out := in
	if out.Capacity < 0 {
		out.Capacity = 0
		r.Clamped++
	}
	if out.MaxCapacity > 0 && out.Capacity > out.MaxCapacity {
		out.Capacity = out.MaxCapacity
		r.Clamped++
	}

	slot := make(map[string]int, len(in.Targets))
	targets := make([]core.Target, 0, len(in.Targets))
	for _, t := range in.Targets {
		if t.DesiredCount < 0 {
			t.DesiredCount = 0
			r.Clamped++
		}
		if i, ok := slot[t.ID]; ok {
			targets[i] = t
			r.Duplicates++
			continue
		}
		slot[t.ID] = len(targets)
		targets = append(targets, t)
	}
	out.Targets = targets
	return out
}

// targetIndex is the visible subset of the normalized targets.
type targetIndex struct {
	order   []core.Target
	byID    map[string]core.Target
	byLabel map[string]core.Target
}

func indexTargets(targets []core.Target) targetIndex {
	idx := targetIndex{
		order:   make([]core.Target, 0, len(targets)),
		byID:    make(map[string]core.Target, len(targets)),
		byLabel: make(map[string]core.Target, len(targets)),
	}
	for _, t := range targets {
		if !t.Visible {
			continue
		}
		idx.order = append(idx.order, t)
		idx.byID[t.ID] = t
		if t.Label != "" {
			if _, taken := idx.byLabel[t.Label]; !taken {
				idx.byLabel[t.Label] = t
			}
		}
	}
	return idx
}

func (idx targetIndex) visible(id string) (core.Target, bool) {
	t, ok := idx.byID[id]
	return t, ok
}

// resolve matches a reported focus by id first, then by label.
func (idx targetIndex) resolve(focus string) (core.Target, bool) {
	if focus == "" {
		return core.Target{}, false
	}
	if t, ok := idx.byID[focus]; ok {
		return t, true
	}
	t, ok := idx.byLabel[focus]
	return t, ok
}
