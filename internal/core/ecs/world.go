package ecs

// World owns the entity allocator, the store registry, and a deferred
// destruction queue flushed at tick end by CleanupSystem.
type World struct {
	alloc        *Allocator
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		alloc:        NewAllocator(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 32),
	}
}

func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.alloc.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.alloc.Alive(id)
}

func (w *World) LiveEntities() int {
	return w.alloc.Live()
}

// MarkForDestruction queues an entity for end-of-tick removal. Safe to
// call while systems iterate component stores.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// DestroyNow removes the entity and all its components immediately.
// Only callable between ticks (setup and teardown paths); systems running
// inside a tick must use MarkForDestruction instead.
func (w *World) DestroyNow(id EntityID) {
	w.registry.RemoveAll(id)
	w.alloc.Destroy(id)
}

// FlushDestroyQueue destroys every queued entity and clears its components.
func (w *World) FlushDestroyQueue() {
	for _, id := range w.destroyQueue {
		w.registry.RemoveAll(id)
		w.alloc.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]
}
