package ecs

// Each2 iterates entities holding both component A and B, walking the
// smaller store and probing the larger one.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				fn(id, a, b)
			}
		}
		return
	}
	for id, b := range sb.data {
		if a, ok := sa.data[id]; ok {
			fn(id, a, b)
		}
	}
}
