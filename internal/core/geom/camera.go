package geom

import "math"

// Camera is a perspective pinhole used to turn pointer coordinates into
// picking rays.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	FovY     float64 // vertical field of view, radians
	Aspect   float64 // width / height
}

// DefaultCamera looks at the origin from above and in front of the table.
func DefaultCamera() Camera {
	return Camera{
		Position: Vec3{0, 8, 12},
		Target:   Vec3{0, 0, 0},
		Up:       Up,
		FovY:     50 * math.Pi / 180,
		Aspect:   16.0 / 9.0,
	}
}

// Ray returns the picking ray through normalized device coordinates
// (x right, y up, both in [-1, 1]).
func (c Camera) Ray(ndcX, ndcY float64) Ray {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward)

	tanHalf := math.Tan(c.FovY / 2)
	dir := forward.
		Add(right.Mul(ndcX * tanHalf * c.Aspect)).
		Add(up.Mul(ndcY * tanHalf))

	return Ray{Origin: c.Position, Direction: dir.Normalize()}
}
