package reconcile

// ClearOrphans releases every agent whose assignment names a target that is
// no longer present and visible. It returns the number of agents released.
// Orphans stay in the pool; only their assignment and color reset.
func ClearOrphans(pool Pool, idx targetIndex) int {
	n := 0
	for i := range pool {
		a := &pool[i]
		if !a.Assigned() {
			continue
		}
		if _, ok := idx.visible(a.AssignedTargetID); ok {
			continue
		}
		a.Release()
		n++
	}
	return n
}
