package reconcile

// Synthetic sizes the pool from a fixed capacity and distributes agents by
// each target's desired count.
type Synthetic struct{}

// Name implements Strategy.
func (Synthetic) Name() string { return "synthetic" }

// Resize trims the pool to capacity, preferring agents that serve a visible
// target, then spawns neutral agents until capacity is reached.
//
// When validly assigned agents alone exceed capacity the ceiling still
// wins: the earliest agents in pool order are kept. Survivors keep their
// relative order so orbit slots shift as little as possible.
func (Synthetic) Resize(pool Pool, in Inputs, idx targetIndex, sp *Spawner, r *Report) Pool {
	capacity := in.Capacity

	if len(pool) > capacity {
		keep := make([]bool, len(pool))
		room := capacity
		for i := range pool {
			if room == 0 {
				break
			}
			if _, ok := idx.visible(pool[i].AssignedTargetID); ok {
				keep[i] = true
				room--
			}
		}
		for i := range pool {
			if room == 0 {
				break
			}
			if !keep[i] {
				if _, ok := idx.visible(pool[i].AssignedTargetID); !ok {
					keep[i] = true
					room--
				}
			}
		}
		trimmed := pool[:0]
		for i := range pool {
			if keep[i] {
				trimmed = append(trimmed, pool[i])
			}
		}
		r.Retired += len(pool) - len(trimmed)
		pool = trimmed
	}

	for len(pool) < capacity {
		pool = append(pool, sp.Spawn(""))
		r.Spawned++
	}
	return pool
}

// Assign releases the surplus of over-served targets, then lets
// under-served targets recruit wandering agents, both in pool order. Every
// agent that stays assigned re-syncs its color in case the target's changed.
// Targets are served in list order, so the first target to reach a free agent
// claims it.
func (Synthetic) Assign(pool Pool, in Inputs, idx targetIndex, r *Report) {
	counts := make(map[string]int, len(idx.order))
	for i := range pool {
		if pool[i].Assigned() {
			counts[pool[i].AssignedTargetID]++
		}
	}

	for i := range pool {
		a := &pool[i]
		if !a.Assigned() {
			continue
		}
		t, _ := idx.visible(a.AssignedTargetID)
		if counts[t.ID] > t.DesiredCount {
			counts[t.ID]--
			a.Release()
			r.Released++
			continue
		}
		a.Color = t.DisplayColor()
	}

	cursor := 0
	for _, t := range idx.order {
		need := t.DesiredCount - counts[t.ID]
		for need > 0 && cursor < len(pool) {
			a := &pool[cursor]
			cursor++
			if a.Assigned() {
				continue
			}
			a.Assign(t)
			counts[t.ID]++
			need--
			r.Recruited++
		}
		if need > 0 {
			r.Unmet += need
		}
	}
}
