package raycast

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/cardhouse/internal/core/geom"
)

// Kind classifies what a ray struck.
type Kind uint8

const (
	KindFloor Kind = iota
	KindCard
	KindGhost
)

func (k Kind) String() string {
	switch k {
	case KindFloor:
		return "floor"
	case KindCard:
		return "card"
	case KindGhost:
		return "ghost"
	default:
		return "unknown"
	}
}

// Hit is one intersection along a ray.
type Hit struct {
	Point    geom.Vec3
	Normal   geom.Vec3 // world-space outward surface normal
	Distance float64
	ObjectID string // card id; empty for the floor and the ghost
	Kind     Kind
	Visible  bool
}

// Caster answers raycast queries, nearest hit first.
type Caster interface {
	Cast(ray geom.Ray) []Hit
}

// Box is an oriented box in the scene.
type Box struct {
	ID      string
	Kind    Kind
	Center  geom.Vec3
	Basis   mgl64.Mat3 // columns are the box's local axes in world space
	Half    geom.Vec3
	Visible bool
}

// BoxSource lists the boxes currently in the scene.
type BoxSource interface {
	Boxes() []Box
}

// BoxSourceFunc adapts a function to BoxSource.
type BoxSourceFunc func() []Box

func (f BoxSourceFunc) Boxes() []Box { return f() }

// Scene casts rays against a square floor at y=0 and a set of boxes.
type Scene struct {
	FloorHalfSize float64
	Source        BoxSource
}

func NewScene(floorSize float64, source BoxSource) *Scene {
	return &Scene{FloorHalfSize: floorSize / 2, Source: source}
}

func (s *Scene) Cast(ray geom.Ray) []Hit {
	ray = ray.Normalized()
	var hits []Hit

	if h, ok := s.castFloor(ray); ok {
		hits = append(hits, h)
	}
	if s.Source != nil {
		for _, b := range s.Source.Boxes() {
			if h, ok := CastBox(ray, b); ok {
				hits = append(hits, h)
			}
		}
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}

func (s *Scene) castFloor(ray geom.Ray) (Hit, bool) {
	dy := ray.Direction.Y()
	if math.Abs(dy) < 1e-12 {
		return Hit{}, false
	}
	t := -ray.Origin.Y() / dy
	if t <= 0 {
		return Hit{}, false
	}
	p := ray.At(t)
	if math.Abs(p.X()) > s.FloorHalfSize || math.Abs(p.Z()) > s.FloorHalfSize {
		return Hit{}, false
	}
	n := geom.Up
	if dy > 0 {
		n = n.Mul(-1)
	}
	return Hit{Point: p, Normal: n, Distance: t, Kind: KindFloor, Visible: true}, true
}

// CastBox intersects a ray with an oriented box using the slab method in the
// box's local frame. Rays starting inside the box do not hit it.
func CastBox(ray geom.Ray, b Box) (Hit, bool) {
	inv := b.Basis.Transpose()
	o := inv.Mul3x1(ray.Origin.Sub(b.Center))
	d := inv.Mul3x1(ray.Direction)

	tNear, tFar := math.Inf(-1), math.Inf(1)
	nearAxis, nearSign := -1, 0.0
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < -b.Half[i] || o[i] > b.Half[i] {
				return Hit{}, false
			}
			continue
		}
		t1 := (-b.Half[i] - o[i]) / d[i]
		t2 := (b.Half[i] - o[i]) / d[i]
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tNear {
			tNear, nearAxis, nearSign = t1, i, sign
		}
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return Hit{}, false
		}
	}
	if nearAxis < 0 || tNear <= 0 {
		return Hit{}, false
	}

	normal := b.Basis.Col(nearAxis).Mul(nearSign)
	return Hit{
		Point:    ray.At(tNear),
		Normal:   normal,
		Distance: tNear,
		ObjectID: b.ID,
		Kind:     b.Kind,
		Visible:  b.Visible,
	}, true
}
