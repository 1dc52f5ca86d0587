// Package geom holds the spatial math shared by placement, physics and
// raycasting. Vectors and matrices come from mathgl; this package adds the
// conventions the sandbox depends on, such as Euler orders and grid snapping.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a world-space vector.
type Vec3 = mgl64.Vec3

// Up is the world up axis. Gravity points along -Up.
var Up = Vec3{0, 1, 0}

// Ray is a half-line used for pointer picking.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Normalized returns the ray with a unit direction.
func (r Ray) Normalized() Ray {
	return Ray{Origin: r.Origin, Direction: r.Direction.Normalize()}
}

// Lerp moves a toward b by factor t.
func Lerp(a, b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// SnapToGrid rounds v to the nearest multiple of step. A non-positive step
// disables snapping.
func SnapToGrid(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}

// IsFinite reports whether every component of v is a real number.
func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ProjectedRadius is the half-width of an oriented box along n: the sum of
// |axis_i . n| * half_i over the box's local axes (the columns of basis).
func ProjectedRadius(basis mgl64.Mat3, half Vec3, n Vec3) float64 {
	r := 0.0
	for i := 0; i < 3; i++ {
		r += math.Abs(basis.Col(i).Dot(n)) * half[i]
	}
	return r
}

// BoxCorners returns the eight world-space corners of an oriented box.
func BoxCorners(center Vec3, basis mgl64.Mat3, half Vec3) [8]Vec3 {
	var out [8]Vec3
	i := 0
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				local := Vec3{sx * half[0], sy * half[1], sz * half[2]}
				out[i] = center.Add(basis.Mul3x1(local))
				i++
			}
		}
	}
	return out
}
