package raycast

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/cardhouse/internal/core/geom"
)

func down(x, z float64) geom.Ray {
	return geom.Ray{Origin: geom.Vec3{x, 10, z}, Direction: geom.Vec3{0, -1, 0}}
}

func TestFloorHit(t *testing.T) {
	s := NewScene(100, nil)
	hits := s.Cast(down(1.23, -4.56))
	require.Len(t, hits, 1)
	h := hits[0]
	require.Equal(t, KindFloor, h.Kind)
	require.True(t, h.Visible)
	require.InDelta(t, 10, h.Distance, 1e-12)
	require.True(t, h.Point.ApproxEqual(geom.Vec3{1.23, 0, -4.56}))
	require.Equal(t, geom.Up, h.Normal)
}

func TestFloorMissOutsideBounds(t *testing.T) {
	s := NewScene(100, nil)
	require.Empty(t, s.Cast(down(60, 0)))
	require.Empty(t, s.Cast(geom.Ray{Origin: geom.Vec3{0, 1, 0}, Direction: geom.Vec3{1, 0, 0}}))
}

func TestBoxIsNearerThanFloor(t *testing.T) {
	box := Box{
		ID:      "c1",
		Kind:    KindCard,
		Center:  geom.Vec3{0, 0.5, 0},
		Basis:   mgl64.Ident3(),
		Half:    geom.Vec3{1, 0.5, 1},
		Visible: true,
	}
	s := NewScene(100, BoxSourceFunc(func() []Box { return []Box{box} }))
	hits := s.Cast(down(0.2, 0.3))
	require.Len(t, hits, 2)
	require.Equal(t, "c1", hits[0].ObjectID)
	require.InDelta(t, 9, hits[0].Distance, 1e-12)
	require.True(t, hits[0].Normal.ApproxEqual(geom.Up))
	require.Equal(t, KindFloor, hits[1].Kind)
}

func TestRotatedBoxNormal(t *testing.T) {
	basis := geom.Euler{Z: math.Pi / 2}.Matrix()
	box := Box{ID: "c", Kind: KindCard, Center: geom.Vec3{0, 1, 0}, Basis: basis, Half: geom.Vec3{1, 0.01, 1.4}, Visible: true}

	// Local X now points up, so the top face sits at y = 2.
	h, ok := CastBox(down(0, 0), box)
	require.True(t, ok)
	require.InDelta(t, 2, h.Point.Y(), 1e-9)
	require.True(t, h.Normal.ApproxEqualThreshold(geom.Up, 1e-9))

	side := geom.Ray{Origin: geom.Vec3{5, 1, 0}, Direction: geom.Vec3{-1, 0, 0}}
	h, ok = CastBox(side, box)
	require.True(t, ok)
	require.InDelta(t, 0.01, h.Point.X(), 1e-9)
	require.True(t, h.Normal.ApproxEqualThreshold(geom.Vec3{1, 0, 0}, 1e-9))
}

func TestRayStartingInsideBoxMisses(t *testing.T) {
	box := Box{Center: geom.Vec3{0, 0, 0}, Basis: mgl64.Ident3(), Half: geom.Vec3{1, 1, 1}}
	_, ok := CastBox(geom.Ray{Origin: geom.Vec3{}, Direction: geom.Vec3{0, 1, 0}}, box)
	require.False(t, ok)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "floor", KindFloor.String())
	require.Equal(t, "card", KindCard.String())
	require.Equal(t, "ghost", KindGhost.String())
}
