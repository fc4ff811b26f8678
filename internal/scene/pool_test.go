package scene_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/targetrange/server/internal/component"
	"github.com/targetrange/server/internal/core/event"
	"github.com/targetrange/server/internal/scene"
	"go.uber.org/zap"
)

func newTestPool(t *testing.T) (*scene.Scene, *scene.TargetPool, *event.Bus) {
	t.Helper()
	sc := scene.New()
	bus := event.NewBus()
	pool := scene.NewTargetPool(sc, bus, zap.NewNop(), scene.Defaults{
		StaticModel:   "models/plate.glb",
		MovingModel:   "models/drone.glb",
		CollisionMask: 2,
		Speed:         2.0,
	})
	return sc, pool, bus
}

func TestCreateReusesDisabledTarget(t *testing.T) {
	sc, pool, _ := newTestPool(t)

	p1 := mgl64.Vec3{1, 2, 3}
	p2 := mgl64.Vec3{4, 5, 6}

	first := pool.Create(component.KindStatic, p1)
	pool.Disable(first, component.KindStatic)

	second := pool.Create(component.KindStatic, p2)
	require.Equal(t, first, second, "disabled target should be recycled")
	assert.Equal(t, 1, pool.BucketLen(component.KindStatic), "bucket must not grow on reuse")

	st, ok := sc.Statics.Get(second)
	require.True(t, ok)
	assert.True(t, st.Active)

	tf, ok := sc.Transforms.Get(second)
	require.True(t, ok)
	assert.Equal(t, p2, tf.Position)

	r, ok := sc.Renderables.Get(second)
	require.True(t, ok)
	assert.True(t, r.Visible)
	assert.True(t, r.Collidable)
}

func TestCreateAllocatesWhileAllActive(t *testing.T) {
	_, pool, _ := newTestPool(t)

	first := pool.Create(component.KindStatic, mgl64.Vec3{1, 0, 0})
	second := pool.Create(component.KindStatic, mgl64.Vec3{2, 0, 0})

	assert.NotEqual(t, first, second, "active targets must not be reused")
	assert.Equal(t, 2, pool.BucketLen(component.KindStatic))
}

func TestBucketsAreSeparatePerKind(t *testing.T) {
	_, pool, _ := newTestPool(t)

	pool.Create(component.KindStatic, mgl64.Vec3{})
	staticID := pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Disable(staticID, component.KindStatic)

	// A disabled static slot must not satisfy a moving create.
	movingID := pool.Create(component.KindMoving, mgl64.Vec3{})
	assert.NotEqual(t, staticID, movingID)
	assert.Equal(t, 2, pool.BucketLen(component.KindStatic))
	assert.Equal(t, 1, pool.BucketLen(component.KindMoving))
}

func TestDisableStopsMovingProcessing(t *testing.T) {
	sc, pool, _ := newTestPool(t)

	id := pool.Create(component.KindMoving, mgl64.Vec3{})
	mv, ok := sc.Movings.Get(id)
	require.True(t, ok)
	mv.Waypoints = []mgl64.Vec3{{1, 0, 0}}
	mv.Processing = true

	pool.Disable(id, component.KindMoving)
	assert.False(t, mv.Active)
	assert.False(t, mv.Processing)

	r, ok := sc.Renderables.Get(id)
	require.True(t, ok)
	assert.False(t, r.Visible)
	assert.False(t, r.Collidable)
}

func TestDisableAlreadyInactiveIsSafe(t *testing.T) {
	_, pool, _ := newTestPool(t)

	id := pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Disable(id, component.KindStatic)
	assert.NotPanics(t, func() {
		pool.Disable(id, component.KindStatic)
	})
}

func TestEnableIsIdempotentWhileActive(t *testing.T) {
	sc, pool, _ := newTestPool(t)

	id := pool.Create(component.KindStatic, mgl64.Vec3{1, 1, 1})
	pool.Enable(id, component.KindStatic, mgl64.Vec3{9, 9, 9})

	st, ok := sc.Statics.Get(id)
	require.True(t, ok)
	assert.True(t, st.Active)

	tf, ok := sc.Transforms.Get(id)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{9, 9, 9}, tf.Position)
}

func TestDisableAllCoversBothKinds(t *testing.T) {
	sc, pool, _ := newTestPool(t)

	s1 := pool.Create(component.KindStatic, mgl64.Vec3{})
	s2 := pool.Create(component.KindStatic, mgl64.Vec3{})
	m1 := pool.Create(component.KindMoving, mgl64.Vec3{})

	pool.DisableAll()

	st1, _ := sc.Statics.Get(s1)
	st2, _ := sc.Statics.Get(s2)
	mv1, _ := sc.Movings.Get(m1)
	assert.False(t, st1.Active)
	assert.False(t, st2.Active)
	assert.False(t, mv1.Active)
	assert.Equal(t, 0, pool.ActiveCount(component.KindStatic))
	assert.Equal(t, 0, pool.ActiveCount(component.KindMoving))
}

func TestDestroyAllEmptiesBothBuckets(t *testing.T) {
	sc, pool, _ := newTestPool(t)

	pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Create(component.KindMoving, mgl64.Vec3{})

	pool.DestroyAll()
	sc.World.FlushDestroyQueue()

	assert.Equal(t, 0, pool.BucketLen(component.KindStatic))
	assert.Equal(t, 0, pool.BucketLen(component.KindMoving))
	assert.Equal(t, 0, sc.Statics.Len())
	assert.Equal(t, 0, sc.Movings.Len())
	assert.Equal(t, 0, sc.World.LiveEntities())
}

func TestDestroyLeavesBucketEntryButBlocksReuse(t *testing.T) {
	sc, pool, _ := newTestPool(t)

	first := pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Destroy(first)

	// Destroy strips state but does not evict the handle.
	assert.Equal(t, 1, pool.BucketLen(component.KindStatic))
	assert.False(t, sc.Statics.Has(first))

	// The dead handle must be skipped by the reuse scan.
	second := pool.Create(component.KindStatic, mgl64.Vec3{})
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, pool.BucketLen(component.KindStatic))
}

func TestCreateEmitsSpawnEventsWithReuseFlag(t *testing.T) {
	_, pool, bus := newTestPool(t)

	var spawns []scene.TargetSpawned
	event.Subscribe(bus, func(ev scene.TargetSpawned) {
		spawns = append(spawns, ev)
	})

	id := pool.Create(component.KindStatic, mgl64.Vec3{})
	pool.Disable(id, component.KindStatic)
	pool.Create(component.KindStatic, mgl64.Vec3{})

	bus.SwapBuffers()
	bus.DispatchAll()

	require.Len(t, spawns, 2)
	assert.False(t, spawns[0].Reused)
	assert.True(t, spawns[1].Reused)
	assert.Equal(t, component.KindStatic, spawns[0].Kind)
}
