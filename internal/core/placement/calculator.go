package placement

import (
	"math"

	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/raycast"
)

// Options holds the card geometry and snapping rules used to rest a card
// against a surface.
type Options struct {
	HalfExtents    geom.Vec3 // card half size along its local X, Y, Z
	Epsilon        float64   // clearance left between card and surface
	GridStep       float64   // horizontal snap step on floor-like surfaces
	FloorThreshold float64   // |normal.Up| above this counts as floor-like
	Smoothing      float64   // preview lerp factor per frame
}

// CardHalfExtents is half of a 2.0 x 0.02 x 2.8 playing card.
var CardHalfExtents = geom.Vec3{1.0, 0.01, 1.4}

func DefaultOptions() Options {
	return Options{
		HalfExtents:    CardHalfExtents,
		Epsilon:        0.001,
		GridStep:       0.1,
		FloorThreshold: 0.9,
		Smoothing:      0.5,
	}
}

// Candidate is a collision-free pose for a card.
type Candidate struct {
	Position  geom.Vec3
	Rotation  geom.Euler
	Normal    geom.Vec3
	SurfaceID string // id of the card rested on; empty for the floor
	Snapped   bool
}

// Calculator turns a pointer ray into a candidate pose.
type Calculator struct {
	opts Options
}

func NewCalculator(opts Options) *Calculator {
	return &Calculator{opts: opts}
}

func (c *Calculator) Options() Options { return c.opts }

// SelectHit returns the nearest hit that may support a card. The ghost and
// hidden objects (a card being dragged) never qualify, so a preview cannot
// end up resting on itself.
func SelectHit(hits []raycast.Hit) (raycast.Hit, bool) {
	for _, h := range hits {
		if h.Kind == raycast.KindGhost || !h.Visible {
			continue
		}
		return h, true
	}
	return raycast.Hit{}, false
}

// Compute casts ray into the scene and rests a card of orientation rot
// flush against the first eligible surface. ok is false when nothing
// eligible was hit or the surface normal is unusable.
func (c *Calculator) Compute(ray geom.Ray, caster raycast.Caster, rot geom.Euler) (Candidate, bool) {
	if !rot.IsFinite() {
		return Candidate{}, false
	}
	hit, ok := SelectHit(caster.Cast(ray))
	if !ok {
		return Candidate{}, false
	}
	return c.Rest(hit, ray, rot)
}

// Rest places the card against an already selected hit.
func (c *Calculator) Rest(hit raycast.Hit, ray geom.Ray, rot geom.Euler) (Candidate, bool) {
	n := hit.Normal
	l := n.Len()
	if l < 1e-9 || !geom.IsFinite(n) || !geom.IsFinite(hit.Point) {
		return Candidate{}, false
	}
	n = n.Mul(1 / l)
	if n.Dot(ray.Direction) > 0 {
		n = n.Mul(-1)
	}

	radius := geom.ProjectedRadius(rot.Matrix(), c.opts.HalfExtents, n)
	pos := hit.Point.Add(n.Mul(radius + c.opts.Epsilon))

	snapped := false
	if math.Abs(n.Dot(geom.Up)) > c.opts.FloorThreshold {
		pos[0] = geom.SnapToGrid(pos[0], c.opts.GridStep)
		pos[2] = geom.SnapToGrid(pos[2], c.opts.GridStep)
		snapped = true
	}

	return Candidate{
		Position:  pos,
		Rotation:  rot,
		Normal:    n,
		SurfaceID: hit.ObjectID,
		Snapped:   snapped,
	}, true
}
