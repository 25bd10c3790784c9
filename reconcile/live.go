package reconcile

import "slices"

// Live mirrors one agent per session and assigns each agent to the target
// its session reports. Live demand is authoritative per session, so there is
// no matching step.
type Live struct{}

// Name implements Strategy.
func (Live) Name() string { return "live" }

// Resize drops agents whose session disappeared and appends one agent per
// newly observed session, keyed by the session id. New sessions are spawned
// in sorted id order so a pass is deterministic for a given spawner.
func (Live) Resize(pool Pool, in Inputs, _ targetIndex, sp *Spawner, r *Report) Pool {
	present := make(map[string]struct{}, len(in.Sessions))
	kept := pool[:0]
	for i := range pool {
		id := pool[i].ID
		_, live := in.Sessions[id]
		_, dup := present[id]
		if !live || dup {
			r.Retired++
			continue
		}
		present[id] = struct{}{}
		kept = append(kept, pool[i])
	}

	fresh := make([]string, 0, len(in.Sessions))
	for id := range in.Sessions {
		if _, ok := present[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	slices.Sort(fresh)
	for _, id := range fresh {
		kept = append(kept, sp.Spawn(id))
		r.Spawned++
	}
	return kept
}

// Assign points every agent at its session's focus when that focus names a
// present, visible target (by id, then label). Anything else wanders.
func (Live) Assign(pool Pool, in Inputs, idx targetIndex, r *Report) {
	for i := range pool {
		a := &pool[i]
		focus, _ := in.Sessions.Focus(a.ID)
		t, ok := idx.resolve(focus)
		if !ok {
			if a.Assigned() {
				r.Released++
			}
			a.Release()
			continue
		}
		if a.AssignedTargetID != t.ID {
			r.Recruited++
		}
		a.Assign(t)
	}
}
