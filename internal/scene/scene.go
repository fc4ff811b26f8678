package scene

import (
	"github.com/targetrange/server/internal/component"
	"github.com/targetrange/server/internal/core/ecs"
)

// Scene bundles the ECS world with the typed component stores this
// simulation uses. One Scene is constructed per server run; nothing in
// the module keeps scene state at package level.
type Scene struct {
	World *ecs.World

	Transforms  *ecs.Store[component.Transform]
	Renderables *ecs.Store[component.Renderable]
	Statics     *ecs.Store[component.StaticTarget]
	Movings     *ecs.Store[component.MovingTarget]
}

func New() *Scene {
	s := &Scene{
		World:       ecs.NewWorld(),
		Transforms:  ecs.NewStore[component.Transform](),
		Renderables: ecs.NewStore[component.Renderable](),
		Statics:     ecs.NewStore[component.StaticTarget](),
		Movings:     ecs.NewStore[component.MovingTarget](),
	}
	reg := s.World.Registry()
	reg.Register(s.Transforms)
	reg.Register(s.Renderables)
	reg.Register(s.Statics)
	reg.Register(s.Movings)
	return s
}
