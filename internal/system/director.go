package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/targetrange/server/internal/component"
	"github.com/targetrange/server/internal/core/ecs"
	coresys "github.com/targetrange/server/internal/core/system"
	"github.com/targetrange/server/internal/data"
	"github.com/targetrange/server/internal/scene"
	"github.com/targetrange/server/internal/scripting"
	"go.uber.org/zap"
)

// DirectorSystem drives range choreography from Lua: Go supplies scene
// state and executes commands, the script decides when targets appear,
// pause, or retire. Runs every IntervalTicks ticks.
type DirectorSystem struct {
	scene    *scene.Scene
	pool     *scene.TargetPool
	routes   *data.RouteTable
	engine   *scripting.Engine
	log      *zap.Logger
	interval int
	tick     int
}

func NewDirectorSystem(sc *scene.Scene, pool *scene.TargetPool, routes *data.RouteTable, engine *scripting.Engine, interval int, log *zap.Logger) *DirectorSystem {
	if interval < 1 {
		interval = 1
	}
	return &DirectorSystem{
		scene:    sc,
		pool:     pool,
		routes:   routes,
		engine:   engine,
		log:      log,
		interval: interval,
	}
}

func (s *DirectorSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *DirectorSystem) Update(_ time.Duration) {
	if s.engine == nil {
		return
	}
	s.tick++
	if s.tick%s.interval != 0 {
		return
	}

	ctx := scripting.DirectorContext{
		Tick:         s.tick,
		StaticActive: s.pool.ActiveCount(component.KindStatic),
		StaticPooled: s.pool.BucketLen(component.KindStatic),
		MovingActive: s.pool.ActiveCount(component.KindMoving),
		MovingPooled: s.pool.BucketLen(component.KindMoving),
		LiveEntities: s.scene.World.LiveEntities(),
	}

	for _, cmd := range s.engine.RunDirector(ctx) {
		s.execute(cmd)
	}
}

func (s *DirectorSystem) execute(cmd scripting.DirectorCommand) {
	switch cmd.Type {
	case "spawn_static":
		s.pool.Create(component.KindStatic, mgl64.Vec3{cmd.X, cmd.Y, cmd.Z})

	case "spawn_moving":
		waypoints, ok := s.routes.Get(cmd.Route)
		if !ok {
			s.log.Warn("director: unknown route", zap.String("route", cmd.Route))
			return
		}
		id := s.pool.Create(component.KindMoving, mgl64.Vec3{cmd.X, cmd.Y, cmd.Z})
		mv, ok := s.scene.Movings.Get(id)
		if !ok {
			return
		}
		mv.Waypoints = waypoints
		mv.WaypointIndex = 0
		if cmd.Speed > 0 {
			mv.Speed = cmd.Speed
		}
		mv.Processing = true

	case "pause_all":
		s.scene.Movings.Each(func(_ ecs.EntityID, mv *component.MovingTarget) {
			mv.Processing = false
		})

	case "resume_all":
		s.scene.Movings.Each(func(_ ecs.EntityID, mv *component.MovingTarget) {
			if mv.Active && len(mv.Waypoints) > 0 {
				mv.Processing = true
			}
		})

	case "disable_all":
		s.pool.DisableAll()

	case "destroy_all":
		s.pool.DestroyAll()

	case "idle":
		// nothing to do this interval

	default:
		s.log.Warn("director: unknown command", zap.String("type", cmd.Type))
	}
}
