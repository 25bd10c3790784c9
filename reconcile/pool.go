package reconcile

import "github.com/hupe1980/crowdmesh/core"

// Pool is the ordered agent collection. Order matters: recruitment and
// release scan in pool order, and an agent's index fixes its orbit slot.
type Pool []core.Agent

// Clone returns a copy that shares no backing array with p.
func (p Pool) Clone() Pool {
	if p == nil {
		return nil
	}
	out := make(Pool, len(p))
	copy(out, p)
	return out
}

// AssignedTo counts agents serving the given target.
func (p Pool) AssignedTo(targetID string) int {
	n := 0
	for i := range p {
		if p[i].AssignedTargetID == targetID {
			n++
		}
	}
	return n
}

// Assigned counts agents serving any target.
func (p Pool) Assigned() int {
	n := 0
	for i := range p {
		if p[i].Assigned() {
			n++
		}
	}
	return n
}

// Find returns the index of the agent with the given id, or -1.
func (p Pool) Find(id string) int {
	for i := range p {
		if p[i].ID == id {
			return i
		}
	}
	return -1
}
