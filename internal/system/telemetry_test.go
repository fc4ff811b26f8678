package system_test

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/targetrange/server/internal/component"
	"github.com/targetrange/server/internal/core/event"
	"github.com/targetrange/server/internal/scene"
	"github.com/targetrange/server/internal/system"
	"go.uber.org/zap"
)

func newTelemetryFixture(t *testing.T) (*scene.TargetPool, *event.Bus, *system.TelemetrySystem) {
	t.Helper()
	sc := scene.New()
	bus := event.NewBus()
	pool := scene.NewTargetPool(sc, bus, zap.NewNop(), scene.Defaults{
		StaticModel: "models/plate.glb",
		MovingModel: "models/drone.glb",
		Speed:       2.0,
	})
	return pool, bus, system.NewTelemetrySystem(bus, pool, 600, zap.NewNop())
}

func dispatch(bus *event.Bus) {
	bus.SwapBuffers()
	bus.DispatchAll()
}

func TestTelemetryCountsSpawnsPerKind(t *testing.T) {
	pool, bus, tel := newTelemetryFixture(t)

	pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Create(component.KindMoving, mgl64.Vec3{})
	dispatch(bus)

	stats := tel.Snapshot()
	assert.Equal(t, int64(2), stats.StaticSpawned)
	assert.Equal(t, int64(1), stats.MovingSpawned)
	assert.Equal(t, int64(0), stats.Reused)
}

func TestTelemetryCountsReuseSeparately(t *testing.T) {
	pool, bus, tel := newTelemetryFixture(t)

	id := pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Disable(id, component.KindStatic)
	pool.Create(component.KindStatic, mgl64.Vec3{})
	dispatch(bus)

	stats := tel.Snapshot()
	assert.Equal(t, int64(1), stats.StaticSpawned, "a recycled spawn must not inflate the allocation count")
	assert.Equal(t, int64(1), stats.Reused)
	assert.Equal(t, int64(1), stats.Disabled)
}

func TestTelemetryCountsDisableOnlyOnTransition(t *testing.T) {
	pool, bus, tel := newTelemetryFixture(t)

	id := pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Disable(id, component.KindStatic)
	pool.Disable(id, component.KindStatic) // already inactive
	dispatch(bus)

	assert.Equal(t, int64(1), tel.Snapshot().Disabled)
}

func TestTelemetryCountsDestroys(t *testing.T) {
	pool, bus, tel := newTelemetryFixture(t)

	pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Create(component.KindMoving, mgl64.Vec3{})
	pool.DestroyAll()
	dispatch(bus)

	assert.Equal(t, int64(2), tel.Snapshot().Destroyed)
}

func TestTelemetryTickCounter(t *testing.T) {
	_, _, tel := newTelemetryFixture(t)

	for i := 0; i < 5; i++ {
		tel.Update(50 * time.Millisecond)
	}
	assert.Equal(t, int64(5), tel.Snapshot().Ticks)
}

func TestTelemetryCountsWaypointEvents(t *testing.T) {
	pool, bus, tel := newTelemetryFixture(t)
	_ = pool

	event.Emit(bus, scene.WaypointReached{Index: 1})
	event.Emit(bus, scene.WaypointReached{Index: 0})
	dispatch(bus)

	require.Equal(t, int64(2), tel.Snapshot().WaypointsReached)
}
