package component

import "github.com/go-gl/mathgl/mgl64"

// TargetKind selects which state record a target entity carries. The kind
// is fixed at creation; an entity is never converted between kinds.
type TargetKind int

const (
	KindStatic TargetKind = iota
	KindMoving
)

func (k TargetKind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindMoving:
		return "moving"
	default:
		return "unknown"
	}
}

// StaticTarget marks a target that never moves. Active is true while the
// target is live and shootable.
type StaticTarget struct {
	Active bool
}

// MovingTarget marks a target that follows a closed loop of waypoints.
// Processing is independent of Active: an active target may stand still.
// Direction caches the unit heading toward Waypoints[WaypointIndex] and
// is recomputed only when a waypoint is reached, so straight-line motion
// between waypoints stays exact.
type MovingTarget struct {
	Active     bool
	Processing bool

	Speed         float64 // world units per second
	Waypoints     []mgl64.Vec3
	WaypointIndex int
	Direction     mgl64.Vec3
}
