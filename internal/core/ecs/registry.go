package ecs

// Registry collects component stores for bulk cleanup on entity destroy.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 8),
	}
}

func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll strips the entity's records from every registered store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
