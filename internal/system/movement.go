package system

import (
	"math"
	"time"

	"github.com/targetrange/server/internal/component"
	"github.com/targetrange/server/internal/core/ecs"
	"github.com/targetrange/server/internal/core/event"
	coresys "github.com/targetrange/server/internal/core/system"
	"github.com/targetrange/server/internal/scene"
	"go.uber.org/zap"
)

// Arrival tolerances. The x and y axes share one band; z uses a tighter
// one. A target counts as arrived only when all three axes are inside
// their band.
const (
	arriveTolXY = 0.05
	arriveTolZ  = 0.02
)

// MovementSystem advances every active, processing moving target toward
// its current waypoint each tick. The cached unit direction is recomputed
// only when a waypoint is reached; between waypoints motion is a straight
// line with no renormalization drift.
type MovementSystem struct {
	scene *scene.Scene
	bus   *event.Bus
	log   *zap.Logger
}

func NewMovementSystem(sc *scene.Scene, bus *event.Bus, log *zap.Logger) *MovementSystem {
	return &MovementSystem{scene: sc, bus: bus, log: log}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	secs := dt.Seconds()

	ecs.Each2(s.scene.Movings, s.scene.Transforms,
		func(id ecs.EntityID, mv *component.MovingTarget, tf *component.Transform) {
			if !mv.Active || !mv.Processing {
				return
			}
			if len(mv.Waypoints) == 0 {
				// Route loading rejects empty waypoint lists, so this is a
				// caller writing bad state directly. Halt the target rather
				// than index out of range.
				s.log.Warn("moving target has no waypoints, halting",
					zap.Uint64("entity", uint64(id)))
				mv.Processing = false
				return
			}
			if mv.WaypointIndex >= len(mv.Waypoints) || mv.WaypointIndex < 0 {
				mv.WaypointIndex = 0
			}

			p := tf.Position
			w := mv.Waypoints[mv.WaypointIndex]
			if math.Abs(p[0]-w[0]) < arriveTolXY &&
				math.Abs(p[1]-w[1]) < arriveTolXY &&
				math.Abs(p[2]-w[2]) < arriveTolZ {
				mv.WaypointIndex = (mv.WaypointIndex + 1) % len(mv.Waypoints)
				next := mv.Waypoints[mv.WaypointIndex]
				delta := next.Sub(p)
				// Degenerate case: the new waypoint coincides with the
				// current position. Keep the previous direction instead of
				// dividing by zero; the target will re-test arrival next tick.
				if l := delta.Len(); l > 0 {
					mv.Direction = delta.Mul(1 / l)
				}
				event.Emit(s.bus, scene.WaypointReached{ID: id, Index: mv.WaypointIndex})
			}

			tf.Position = tf.Position.Add(mv.Direction.Mul(mv.Speed * secs))
		})
}
