package system

import (
	"time"

	"github.com/targetrange/server/internal/component"
	"github.com/targetrange/server/internal/core/event"
	coresys "github.com/targetrange/server/internal/core/system"
	"github.com/targetrange/server/internal/scene"
	"go.uber.org/zap"
)

// Stats accumulates lifecycle counters over a server run. A snapshot is
// persisted as one session row at shutdown when the database is enabled.
type Stats struct {
	Ticks            int64
	StaticSpawned    int64
	MovingSpawned    int64
	Reused           int64
	Disabled         int64
	Destroyed        int64
	WaypointsReached int64
}

// TelemetrySystem counts lifecycle events off the bus and logs a summary
// line periodically. Diagnostic only; nothing reads the counters back
// into the simulation.
type TelemetrySystem struct {
	pool     *scene.TargetPool
	log      *zap.Logger
	logEvery int64
	stats    Stats
}

func NewTelemetrySystem(bus *event.Bus, pool *scene.TargetPool, logEvery int64, log *zap.Logger) *TelemetrySystem {
	if logEvery < 1 {
		logEvery = 600
	}
	s := &TelemetrySystem{pool: pool, log: log, logEvery: logEvery}

	event.Subscribe(bus, func(ev scene.TargetSpawned) {
		if ev.Reused {
			s.stats.Reused++
			return
		}
		switch ev.Kind {
		case component.KindStatic:
			s.stats.StaticSpawned++
		case component.KindMoving:
			s.stats.MovingSpawned++
		}
	})
	event.Subscribe(bus, func(ev scene.TargetDisabled) {
		s.stats.Disabled++
	})
	event.Subscribe(bus, func(ev scene.TargetDestroyed) {
		s.stats.Destroyed++
	})
	event.Subscribe(bus, func(ev scene.WaypointReached) {
		s.stats.WaypointsReached++
	})
	return s
}

func (s *TelemetrySystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *TelemetrySystem) Update(_ time.Duration) {
	s.stats.Ticks++
	if s.stats.Ticks%s.logEvery != 0 {
		return
	}
	s.log.Info("range telemetry",
		zap.Int64("tick", s.stats.Ticks),
		zap.Int("static_active", s.pool.ActiveCount(component.KindStatic)),
		zap.Int("moving_active", s.pool.ActiveCount(component.KindMoving)),
		zap.Int64("reused", s.stats.Reused),
		zap.Int64("waypoints", s.stats.WaypointsReached),
	)
}

// Snapshot returns a copy of the accumulated counters.
func (s *TelemetrySystem) Snapshot() Stats {
	return s.stats
}
