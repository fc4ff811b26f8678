package scene

import (
	"github.com/targetrange/server/internal/component"
	"github.com/targetrange/server/internal/core/ecs"
)

// TargetSpawned fires when Create hands out a target, whether freshly
// allocated or recycled from the pool.
type TargetSpawned struct {
	ID     ecs.EntityID
	Kind   component.TargetKind
	Reused bool
}

// TargetDisabled fires when a live target is soft-disabled.
type TargetDisabled struct {
	ID   ecs.EntityID
	Kind component.TargetKind
}

// TargetDestroyed fires when a target is permanently removed.
type TargetDestroyed struct {
	ID   ecs.EntityID
	Kind component.TargetKind
}

// WaypointReached fires when a moving target arrives at its current
// waypoint; Index is the new waypoint index after the cyclic advance.
type WaypointReached struct {
	ID    ecs.EntityID
	Index int
}
