package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Order is the intrinsic axis order an Euler triple is composed in.
type Order uint8

const (
	// OrderXYZ composes Rx * Ry * Rz. Stored card rotations use this order.
	OrderXYZ Order = iota
	// OrderYXZ composes Ry * Rx * Rz: yaw outer, then pitch, then roll.
	OrderYXZ
)

func (o Order) String() string {
	switch o {
	case OrderXYZ:
		return "XYZ"
	case OrderYXZ:
		return "YXZ"
	default:
		return fmt.Sprintf("Order(%d)", uint8(o))
	}
}

// gimbalLimit matches the threshold used when decomposing a rotation matrix;
// beyond it the middle axis is at +-90 degrees and one angle is fixed to zero.
const gimbalLimit = 0.9999999

// Euler is a rotation expressed as angles in radians about X (pitch),
// Y (yaw) and Z (roll), composed in Order.
type Euler struct {
	X, Y, Z float64
	Order   Order
}

// Matrix returns the rotation matrix for e. Its columns are the rotated
// local X, Y and Z axes.
func (e Euler) Matrix() mgl64.Mat3 {
	rx := mgl64.Rotate3DX(e.X)
	ry := mgl64.Rotate3DY(e.Y)
	rz := mgl64.Rotate3DZ(e.Z)
	switch e.Order {
	case OrderYXZ:
		return ry.Mul3(rx).Mul3(rz)
	default:
		return rx.Mul3(ry).Mul3(rz)
	}
}

// Reorder expresses the same orientation in another axis order.
func (e Euler) Reorder(o Order) Euler {
	if e.Order == o {
		return e
	}
	return EulerFromMatrix(e.Matrix(), o)
}

// Vec returns the angles as (X, Y, Z).
func (e Euler) Vec() Vec3 {
	return Vec3{e.X, e.Y, e.Z}
}

// IsFinite reports whether all three angles are real numbers.
func (e Euler) IsFinite() bool {
	return IsFinite(e.Vec())
}

// EulerFromMatrix decomposes a pure rotation matrix into angles of the given
// order.
func EulerFromMatrix(m mgl64.Mat3, o Order) Euler {
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m21, m22, m23 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m31, m32, m33 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	out := Euler{Order: o}
	switch o {
	case OrderYXZ:
		out.X = math.Asin(-mgl64.Clamp(m23, -1, 1))
		if math.Abs(m23) < gimbalLimit {
			out.Y = math.Atan2(m13, m33)
			out.Z = math.Atan2(m21, m22)
		} else {
			out.Y = math.Atan2(-m31, m11)
		}
	default:
		out.Y = math.Asin(mgl64.Clamp(m13, -1, 1))
		if math.Abs(m13) < gimbalLimit {
			out.X = math.Atan2(-m23, m33)
			out.Z = math.Atan2(-m12, m11)
		} else {
			out.X = math.Atan2(m32, m22)
		}
	}
	return out
}
