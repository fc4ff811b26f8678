package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/targetrange/server/internal/component"
	"github.com/targetrange/server/internal/core/ecs"
	"github.com/targetrange/server/internal/core/event"
	"go.uber.org/zap"
)

// Defaults supplies the representation attached to targets spawned by
// bare Create calls. Layout-driven spawns overwrite these afterwards.
type Defaults struct {
	StaticModel   string
	MovingModel   string
	CollisionMask uint32
	Speed         float64 // units/second, must be positive
}

// TargetPool owns the lifecycle of target entities: creation,
// reuse-on-demand, soft-disable, and destruction. It keeps one ordered
// bucket of handles per target kind; buckets are append-only except for
// DestroyAll. Create recycles an inactive slot before allocating.
//
// Pool operations run between ticks or from PostUpdate systems; they are
// never concurrent with the movement pass (single-threaded loop).
type TargetPool struct {
	scene *Scene
	bus   *event.Bus
	log   *zap.Logger
	def   Defaults

	static []ecs.EntityID
	moving []ecs.EntityID
}

func NewTargetPool(sc *Scene, bus *event.Bus, log *zap.Logger, def Defaults) *TargetPool {
	if def.Speed <= 0 {
		def.Speed = 2.0
	}
	return &TargetPool{
		scene:  sc,
		bus:    bus,
		log:    log,
		def:    def,
		static: make([]ecs.EntityID, 0, 16),
		moving: make([]ecs.EntityID, 0, 16),
	}
}

// Create returns a live target of the given kind at the given position.
// The bucket is scanned for the first inactive entity, which is
// re-enabled in place; only when every pooled entity is active does the
// pool allocate a new one. The scan is linear in bucket insertion order.
func (p *TargetPool) Create(kind component.TargetKind, pos mgl64.Vec3) ecs.EntityID {
	if id, ok := p.reuse(kind, pos); ok {
		event.Emit(p.bus, TargetSpawned{ID: id, Kind: kind, Reused: true})
		return id
	}

	id := p.scene.World.CreateEntity()
	p.scene.Transforms.Set(id, component.NewTransform(pos))

	switch kind {
	case component.KindStatic:
		p.scene.Renderables.Set(id, &component.Renderable{
			Model:         p.def.StaticModel,
			CollisionMask: p.def.CollisionMask,
			Visible:       true,
			Collidable:    true,
		})
		p.scene.Statics.Set(id, &component.StaticTarget{Active: true})
		p.static = append(p.static, id)
	case component.KindMoving:
		p.scene.Renderables.Set(id, &component.Renderable{
			Model:         p.def.MovingModel,
			CollisionMask: p.def.CollisionMask,
			Visible:       true,
			Collidable:    true,
		})
		p.scene.Movings.Set(id, &component.MovingTarget{
			Active:     true,
			Processing: false,
			Speed:      p.def.Speed,
		})
		p.moving = append(p.moving, id)
	}

	event.Emit(p.bus, TargetSpawned{ID: id, Kind: kind, Reused: false})
	return id
}

// reuse scans the kind's bucket for the first inactive entity and
// re-enables it. Handles whose state record is gone (destroyed but never
// evicted from the bucket) are skipped.
func (p *TargetPool) reuse(kind component.TargetKind, pos mgl64.Vec3) (ecs.EntityID, bool) {
	switch kind {
	case component.KindStatic:
		for _, id := range p.static {
			if st, ok := p.scene.Statics.Get(id); ok && !st.Active {
				p.Enable(id, kind, pos)
				return id, true
			}
		}
	case component.KindMoving:
		for _, id := range p.moving {
			if mv, ok := p.scene.Movings.Get(id); ok && !mv.Active {
				p.Enable(id, kind, pos)
				return id, true
			}
		}
	}
	return 0, false
}

// Enable reactivates a pooled target and repositions it. Calling Enable
// on an already-active target just re-affirms its state.
func (p *TargetPool) Enable(id ecs.EntityID, kind component.TargetKind, pos mgl64.Vec3) ecs.EntityID {
	switch kind {
	case component.KindStatic:
		st, ok := p.scene.Statics.Get(id)
		if !ok {
			p.log.Warn("enable: no static record", zap.Uint64("entity", uint64(id)))
			return id
		}
		st.Active = true
	case component.KindMoving:
		mv, ok := p.scene.Movings.Get(id)
		if !ok {
			p.log.Warn("enable: no moving record", zap.Uint64("entity", uint64(id)))
			return id
		}
		mv.Active = true
	}

	if tf, ok := p.scene.Transforms.Get(id); ok {
		tf.Position = pos
	}
	if r, ok := p.scene.Renderables.Get(id); ok {
		r.Visible = true
		r.Collidable = true
	}
	return id
}

// Disable soft-hides a target without destroying it, keeping the entity
// poolable. Moving targets also stop processing so the scheduler skips
// them. Safe to call on an already-inactive target.
func (p *TargetPool) Disable(id ecs.EntityID, kind component.TargetKind) {
	wasActive := false
	switch kind {
	case component.KindStatic:
		if st, ok := p.scene.Statics.Get(id); ok {
			wasActive = st.Active
			st.Active = false
		}
	case component.KindMoving:
		if mv, ok := p.scene.Movings.Get(id); ok {
			wasActive = mv.Active
			mv.Active = false
			mv.Processing = false
		}
	}

	if r, ok := p.scene.Renderables.Get(id); ok {
		r.Visible = false
		r.Collidable = false
	}

	if wasActive {
		event.Emit(p.bus, TargetDisabled{ID: id, Kind: kind})
	}
}

// DisableAll disables every pooled target, static bucket first, each in
// insertion order.
func (p *TargetPool) DisableAll() {
	for _, id := range p.static {
		p.Disable(id, component.KindStatic)
	}
	for _, id := range p.moving {
		p.Disable(id, component.KindMoving)
	}
}

// Destroy permanently removes the entity: its component records are
// stripped immediately so reuse scans cannot resurrect it, and the handle
// itself is reclaimed at tick end by CleanupSystem. Destroy does not
// evict the handle from its bucket; callers that want a consistent pool
// use DestroyAll, which does both.
func (p *TargetPool) Destroy(id ecs.EntityID) {
	if !p.scene.World.Alive(id) {
		return
	}
	kind := component.KindStatic
	if p.scene.Movings.Has(id) {
		kind = component.KindMoving
	}
	p.scene.World.Registry().RemoveAll(id)
	p.scene.World.MarkForDestruction(id)
	event.Emit(p.bus, TargetDestroyed{ID: id, Kind: kind})
}

// DestroyAll empties both buckets, destroying entities in LIFO order,
// static bucket before moving.
func (p *TargetPool) DestroyAll() {
	for n := len(p.static); n > 0; n = len(p.static) {
		id := p.static[n-1]
		p.static = p.static[:n-1]
		p.Destroy(id)
	}
	for n := len(p.moving); n > 0; n = len(p.moving) {
		id := p.moving[n-1]
		p.moving = p.moving[:n-1]
		p.Destroy(id)
	}
}

// BucketLen returns the number of handles pooled for a kind, active or not.
func (p *TargetPool) BucketLen(kind component.TargetKind) int {
	switch kind {
	case component.KindStatic:
		return len(p.static)
	case component.KindMoving:
		return len(p.moving)
	default:
		return 0
	}
}

// ActiveCount returns how many pooled targets of a kind are currently live.
func (p *TargetPool) ActiveCount(kind component.TargetKind) int {
	n := 0
	switch kind {
	case component.KindStatic:
		for _, id := range p.static {
			if st, ok := p.scene.Statics.Get(id); ok && st.Active {
				n++
			}
		}
	case component.KindMoving:
		for _, id := range p.moving {
			if mv, ok := p.scene.Movings.Get(id); ok && mv.Active {
				n++
			}
		}
	}
	return n
}
