package ecs

// EntityID packs a 32-bit slot index in the lower half and a 32-bit
// generation in the upper half. The generation bumps on destroy so stale
// handles held by callers stop resolving.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// Allocator hands out entity IDs with generational indices, recycling
// destroyed slots through a free list before growing.
type Allocator struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewAllocator() *Allocator {
	return &Allocator{
		generations: make([]uint32, 0, 256),
		freeList:    make([]uint32, 0, 64),
	}
}

func (a *Allocator) Create() EntityID {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		return NewEntityID(idx, a.generations[idx])
	}
	idx := a.nextIndex
	a.nextIndex++
	if int(idx) >= len(a.generations) {
		a.generations = append(a.generations, 0)
	}
	return NewEntityID(idx, a.generations[idx])
}

// Alive reports whether the handle still refers to a live slot.
func (a *Allocator) Alive(id EntityID) bool {
	idx := id.Index()
	if idx >= a.nextIndex {
		return false
	}
	return a.generations[idx] == id.Generation()
}

// Destroy invalidates the handle and returns its slot to the free list.
// Destroying a stale handle is a no-op.
func (a *Allocator) Destroy(id EntityID) {
	idx := id.Index()
	if idx >= a.nextIndex {
		return
	}
	if a.generations[idx] != id.Generation() {
		return
	}
	a.generations[idx]++
	a.freeList = append(a.freeList, idx)
}

// Live returns the number of currently allocated entities.
func (a *Allocator) Live() int {
	return int(a.nextIndex) - len(a.freeList)
}
