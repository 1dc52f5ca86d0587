package placement

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/raycast"
)

type fakeCaster []raycast.Hit

func (f fakeCaster) Cast(geom.Ray) []raycast.Hit { return f }

var downRay = geom.Ray{Origin: geom.Vec3{0, 10, 0}, Direction: geom.Vec3{0, -1, 0}}

func floorHit(x, z float64) raycast.Hit {
	return raycast.Hit{Point: geom.Vec3{x, 0, z}, Normal: geom.Up, Kind: raycast.KindFloor, Visible: true}
}

func TestFloorPlacementSnapsToGrid(t *testing.T) {
	calc := NewCalculator(DefaultOptions())
	rot := geom.Euler{Order: geom.OrderYXZ}

	c, ok := calc.Compute(downRay, fakeCaster{floorHit(1.234, -0.987)}, rot)
	require.True(t, ok)
	require.True(t, c.Snapped)
	assert.InDelta(t, 1.2, c.Position.X(), 1e-9)
	assert.InDelta(t, -1.0, c.Position.Z(), 1e-9)
	assert.InDelta(t, 0.01+0.001, c.Position.Y(), 1e-12)

	for _, v := range []float64{c.Position.X(), c.Position.Z()} {
		steps := v / 0.1
		assert.InDelta(t, math.Round(steps), steps, 1e-9)
	}
}

func TestStandingCardRestsOnItsEdge(t *testing.T) {
	calc := NewCalculator(DefaultOptions())
	rot := geom.Euler{X: math.Pi / 2, Order: geom.OrderYXZ}
	c, ok := calc.Compute(downRay, fakeCaster{floorHit(0, 0)}, rot)
	require.True(t, ok)
	assert.InDelta(t, 1.4+0.001, c.Position.Y(), 1e-9)
}

func TestWallPlacementIsNotSnapped(t *testing.T) {
	calc := NewCalculator(DefaultOptions())
	hit := raycast.Hit{Point: geom.Vec3{0.123, 1.456, 0}, Normal: geom.Vec3{1, 0, 0}, Kind: raycast.KindCard, ObjectID: "x", Visible: true}
	ray := geom.Ray{Origin: geom.Vec3{10, 1.456, 0}, Direction: geom.Vec3{-1, 0, 0}}

	c, ok := calc.Compute(ray, fakeCaster{hit}, geom.Euler{Order: geom.OrderYXZ})
	require.True(t, ok)
	require.False(t, c.Snapped)
	assert.Equal(t, "x", c.SurfaceID)
	assert.InDelta(t, 0.123+1.0+0.001, c.Position.X(), 1e-12)
	assert.InDelta(t, 1.456, c.Position.Y(), 1e-12)
}

// No corner of the placed box may cross the supporting plane, and the nearest
// corner must sit exactly epsilon above it.
func TestPlacementIsFlushForAnyOrientation(t *testing.T) {
	opts := DefaultOptions()
	calc := NewCalculator(opts)
	rng := rand.New(rand.NewPCG(1, 2))

	normals := []geom.Vec3{
		geom.Up,
		{1, 0, 0},
		{0, 0, -1},
		geom.Vec3{1, 1, 0}.Normalize(),
		geom.Vec3{-0.3, 0.2, 0.9}.Normalize(),
	}

	for i := 0; i < 200; i++ {
		rot := geom.Euler{
			X:     (rng.Float64()*2 - 1) * math.Pi,
			Y:     (rng.Float64()*2 - 1) * math.Pi,
			Z:     (rng.Float64()*2 - 1) * math.Pi,
			Order: geom.OrderYXZ,
		}
		n := normals[i%len(normals)]
		hitPoint := geom.Vec3{rng.Float64(), rng.Float64(), rng.Float64()}
		hit := raycast.Hit{Point: hitPoint, Normal: n, Kind: raycast.KindCard, Visible: true}
		ray := geom.Ray{Origin: hitPoint.Add(n.Mul(5)), Direction: n.Mul(-1)}

		c, ok := calc.Compute(ray, fakeCaster{hit}, rot)
		require.True(t, ok)

		minDist := math.Inf(1)
		for _, corner := range geom.BoxCorners(c.Position, rot.Matrix(), opts.HalfExtents) {
			minDist = math.Min(minDist, corner.Sub(hitPoint).Dot(n))
		}
		if c.Snapped {
			// Grid snapping only moves the card within the horizontal plane.
			require.True(t, n.ApproxEqual(geom.Up))
		}
		require.InDelta(t, opts.Epsilon, minDist, 1e-9, "orientation %+v normal %v", rot, n)
	}
}

func TestGhostAndHiddenHitsAreSkipped(t *testing.T) {
	calc := NewCalculator(DefaultOptions())
	hits := fakeCaster{
		{Point: geom.Vec3{0, 3, 0}, Normal: geom.Up, Kind: raycast.KindGhost, Visible: true},
		{Point: geom.Vec3{0, 2, 0}, Normal: geom.Up, Kind: raycast.KindCard, ObjectID: "dragged", Visible: false},
		floorHit(0, 0),
	}
	c, ok := calc.Compute(downRay, hits, geom.Euler{Order: geom.OrderYXZ})
	require.True(t, ok)
	assert.Empty(t, c.SurfaceID)
	assert.InDelta(t, 0.011, c.Position.Y(), 1e-12)

	_, ok = calc.Compute(downRay, hits[:2], geom.Euler{Order: geom.OrderYXZ})
	assert.False(t, ok)
}

func TestNoHitOrDegenerateNormalSkipsFrame(t *testing.T) {
	calc := NewCalculator(DefaultOptions())
	_, ok := calc.Compute(downRay, fakeCaster{}, geom.Euler{})
	assert.False(t, ok)

	bad := raycast.Hit{Point: geom.Vec3{0, 0, 0}, Normal: geom.Vec3{}, Visible: true}
	_, ok = calc.Compute(downRay, fakeCaster{bad}, geom.Euler{})
	assert.False(t, ok)

	nan := raycast.Hit{Point: geom.Vec3{0, 0, 0}, Normal: geom.Vec3{math.NaN(), 1, 0}, Visible: true}
	_, ok = calc.Compute(downRay, fakeCaster{nan}, geom.Euler{})
	assert.False(t, ok)
}

func TestPreviewSmoothsButCommitsRawTarget(t *testing.T) {
	calc := NewCalculator(DefaultOptions())
	p := NewPreview(0.5)
	rot := geom.Euler{Order: geom.OrderYXZ}

	_, ok := p.Target()
	require.False(t, ok)

	c1, ok := calc.Compute(downRay, fakeCaster{floorHit(0, 0)}, rot)
	p.Track(c1, ok)
	p.Advance()
	shown, _, _ := p.Displayed()
	assert.True(t, shown.ApproxEqual(c1.Position))

	c2, ok := calc.Compute(downRay, fakeCaster{floorHit(2, 0)}, rot)
	p.Track(c2, ok)
	p.Advance()
	shown, _, _ = p.Displayed()
	assert.InDelta(t, 1.0, shown.X(), 1e-9)

	target, ok := p.Target()
	require.True(t, ok)
	assert.InDelta(t, 2.0, target.Position.X(), 1e-9)

	// A frame without a hit holds the previous candidate.
	p.Track(Candidate{}, false)
	target, _ = p.Target()
	assert.InDelta(t, 2.0, target.Position.X(), 1e-9)

	p.Advance()
	shown, _, _ = p.Displayed()
	assert.InDelta(t, 1.5, shown.X(), 1e-9)

	p.Reset()
	_, ok = p.Target()
	assert.False(t, ok)
}
