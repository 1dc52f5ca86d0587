package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
	"github.com/zeusync/cardhouse/internal/core/physics"
)

var cardHalf = geom.Vec3{1.0, 0.01, 1.4}

func spec(pos geom.Vec3, mass float64) physics.BodySpec {
	return physics.BodySpec{
		Position:       pos,
		HalfExtents:    cardHalf,
		Mass:           mass,
		LinearDamping:  0.5,
		AngularDamping: 0.5,
		Friction:       0.9,
	}
}

func run(w *World, seconds float64) {
	const frame = 1.0 / 60
	for t := 0.0; t < seconds; t += frame {
		w.Step(frame)
	}
}

func TestFlatCardFallsAndRestsOnFloor(t *testing.T) {
	w := NewWorld(DefaultOptions(), log.NewNop())
	w.CreateBody("a", spec(geom.Vec3{0, 2, 0}, 0.1))

	run(w, 0.2)
	b, ok := w.Body("a")
	require.True(t, ok)
	assert.Less(t, b.Position().Y(), 2.0)

	run(w, 4)
	assert.InDelta(t, 0.01, b.Position().Y(), 1e-3)
	assert.InDelta(t, 0, b.Position().X(), 1e-6)
	assert.True(t, b.Sleeping())
}

func TestStaticBodyNeverMoves(t *testing.T) {
	w := NewWorld(DefaultOptions(), log.NewNop())
	body := w.CreateBody("a", spec(geom.Vec3{0, 3, 0}, 0))
	body.SetVelocity(geom.Vec3{5, 5, 5})

	run(w, 1)
	b, _ := w.Body("a")
	assert.Equal(t, geom.Vec3{0, 3, 0}, b.Position())
	assert.True(t, b.Static())
}

func TestSleepingBodyHoldsUntilWoken(t *testing.T) {
	w := NewWorld(DefaultOptions(), log.NewNop())
	body := w.CreateBody("a", spec(geom.Vec3{0, 3, 0}, 0.1))
	body.Sleep()

	run(w, 0.5)
	b, _ := w.Body("a")
	assert.Equal(t, 3.0, b.Position().Y())

	body.WakeUp()
	run(w, 0.5)
	assert.Less(t, b.Position().Y(), 3.0)
}

func TestSettersDoNotWakeSleepingBody(t *testing.T) {
	w := NewWorld(DefaultOptions(), log.NewNop())
	body := w.CreateBody("a", spec(geom.Vec3{0, 3, 0}, 0.1))
	body.Sleep()

	body.SetPosition(geom.Vec3{1, 2, 0})
	body.SetVelocity(geom.Vec3{0, -4, 0})
	body.SetMass(0.2)
	run(w, 0.5)

	b, _ := w.Body("a")
	assert.True(t, b.Sleeping())
	assert.Equal(t, geom.Vec3{1, 2, 0}, b.Position())

	body.WakeUp()
	run(w, 0.1)
	assert.Less(t, b.Position().Y(), 2.0)
}

func TestStackedCardsFallAsleep(t *testing.T) {
	w := NewWorld(DefaultOptions(), log.NewNop())
	w.CreateBody("bottom", spec(geom.Vec3{0, 0.011, 0}, 0.1))
	w.CreateBody("top", spec(geom.Vec3{0, 0.0315, 0}, 0.1))

	run(w, 4)
	bottom, _ := w.Body("bottom")
	top, _ := w.Body("top")
	assert.True(t, bottom.Sleeping())
	assert.True(t, top.Sleeping())
	assert.InDelta(t, 0.01, bottom.Position().Y(), 2e-3)
	assert.InDelta(t, 0.03, top.Position().Y(), 5e-3)
	assert.Equal(t, geom.Vec3{}, top.Velocity())
	assert.Equal(t, geom.Vec3{}, bottom.Velocity())
}

func TestFallingCardWakesSleepingStack(t *testing.T) {
	w := NewWorld(DefaultOptions(), log.NewNop())
	w.CreateBody("bottom", spec(geom.Vec3{0, 0.011, 0}, 0.1))
	run(w, 3)
	bottom, _ := w.Body("bottom")
	require.True(t, bottom.Sleeping())

	w.CreateBody("dropped", spec(geom.Vec3{0, 0.3, 0}, 0.1))
	woke := false
	for range 120 {
		w.Step(1.0 / 60)
		woke = woke || !bottom.Sleeping()
	}
	assert.True(t, woke)
	dropped, _ := w.Body("dropped")
	assert.InDelta(t, 0.03, dropped.Position().Y(), 5e-3)
}

func TestCardLandsOnStaticCard(t *testing.T) {
	w := NewWorld(DefaultOptions(), log.NewNop())
	w.CreateBody("base", spec(geom.Vec3{0, 0.01, 0}, 0))
	w.CreateBody("top", spec(geom.Vec3{0, 0.1, 0}, 0.1))

	run(w, 3)
	top, _ := w.Body("top")
	assert.InDelta(t, 0.03, top.Position().Y(), 5e-3)
}

func TestRotationRoundTrip(t *testing.T) {
	w := NewWorld(DefaultOptions(), log.NewNop())
	rot := geom.Euler{X: math.Pi / 2, Y: 0.3, Z: -0.2}
	body := w.CreateBody("a", spec(geom.Vec3{}, 0))
	body.SetRotation(rot)

	b, _ := w.Body("a")
	want, got := rot.Matrix(), b.Rotation().Matrix()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
}

func TestDestroyKeepsCreationOrder(t *testing.T) {
	w := NewWorld(DefaultOptions(), log.NewNop())
	for _, id := range []string{"a", "b", "c"} {
		w.CreateBody(id, spec(geom.Vec3{}, 0))
	}
	w.DestroyBody("b")
	w.DestroyBody("missing")

	var ids []string
	for _, b := range w.Bodies() {
		ids = append(ids, b.ID())
	}
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.Equal(t, 2, w.Len())

	w.CreateBody("a", spec(geom.Vec3{1, 0, 0}, 0))
	assert.Equal(t, 2, w.Len())
	a, _ := w.Body("a")
	assert.Equal(t, geom.Vec3{1, 0, 0}, a.Position())
}

func TestStepIgnoresNonPositiveDelta(t *testing.T) {
	w := NewWorld(DefaultOptions(), log.NewNop())
	w.CreateBody("a", spec(geom.Vec3{0, 3, 0}, 0.1))
	w.Step(0)
	w.Step(-1)
	b, _ := w.Body("a")
	assert.Equal(t, 3.0, b.Position().Y())
}
