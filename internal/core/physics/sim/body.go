package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/cardhouse/internal/core/geom"
)

// RigidBody is an oriented box. A body with zero mass is static: it collides
// but is never integrated.
type RigidBody struct {
	id  string
	pos geom.Vec3
	rot mgl64.Quat
	vel geom.Vec3
	ang geom.Vec3

	half           geom.Vec3
	mass           float64
	linearDamping  float64
	angularDamping float64
	friction       float64
	restitution    float64

	sleeping bool
	idle     float64
}

func (b *RigidBody) ID() string { return b.id }

func (b *RigidBody) SetMass(mass float64) {
	if mass < 0 {
		mass = 0
	}
	b.mass = mass
}

func (b *RigidBody) SetPosition(p geom.Vec3) { b.pos = p }

func (b *RigidBody) SetRotation(r geom.Euler) {
	b.rot = mgl64.Mat4ToQuat(r.Matrix().Mat4()).Normalize()
}

func (b *RigidBody) SetVelocity(v geom.Vec3)        { b.vel = v }
func (b *RigidBody) SetAngularVelocity(w geom.Vec3) { b.ang = w }

func (b *RigidBody) Sleep() {
	b.sleeping = true
	b.idle = 0
}

func (b *RigidBody) WakeUp() {
	b.sleeping = false
	b.idle = 0
}

func (b *RigidBody) Position() geom.Vec3        { return b.pos }
func (b *RigidBody) Velocity() geom.Vec3        { return b.vel }
func (b *RigidBody) AngularVelocity() geom.Vec3 { return b.ang }
func (b *RigidBody) HalfExtents() geom.Vec3     { return b.half }
func (b *RigidBody) Mass() float64              { return b.mass }
func (b *RigidBody) Sleeping() bool             { return b.sleeping }
func (b *RigidBody) Static() bool               { return b.mass <= 0 }

// Basis returns the rotation matrix; its columns are the local axes.
func (b *RigidBody) Basis() mgl64.Mat3 {
	return b.rot.Mat4().Mat3()
}

// Rotation returns the orientation as XYZ Euler angles.
func (b *RigidBody) Rotation() geom.Euler {
	return geom.EulerFromMatrix(b.Basis(), geom.OrderXYZ)
}

func (b *RigidBody) active() bool {
	return !b.Static() && !b.sleeping
}

// The helpers below accept a nil body, which stands for the floor.

func (b *RigidBody) invMass() float64 {
	if b == nil || !b.active() {
		return 0
	}
	return 1 / b.mass
}

func (b *RigidBody) pointVelocity(r geom.Vec3) geom.Vec3 {
	if b == nil {
		return geom.Vec3{}
	}
	return b.vel.Add(b.ang.Cross(r))
}

func (b *RigidBody) wakeIfSleeping() {
	if b != nil && b.sleeping && !b.Static() {
		b.WakeUp()
	}
}

// applyImpulse changes momentum at offset r from the center. inv is the
// body's inverse mass as seen by the solver; zero leaves it untouched.
func (b *RigidBody) applyImpulse(j, r geom.Vec3, inv float64) {
	if inv == 0 {
		return
	}
	b.vel = b.vel.Add(j.Mul(inv))
	b.ang = b.ang.Add(r.Cross(j).Mul(1 / b.inertia()))
}

// inertia approximates the box as a cube of its mean edge length.
func (b *RigidBody) inertia() float64 {
	size := (b.half[0] + b.half[1] + b.half[2]) / 3 * 2
	return b.mass * size * size / 6
}

func (b *RigidBody) corners() [8]geom.Vec3 {
	return geom.BoxCorners(b.pos, b.Basis(), b.half)
}

// contains reports whether p lies inside the box, with a small tolerance.
func (b *RigidBody) contains(p geom.Vec3, tolerance float64) bool {
	d := p.Sub(b.pos)
	basis := b.Basis()
	for i := 0; i < 3; i++ {
		dist := d.Dot(basis.Col(i))
		if dist < 0 {
			dist = -dist
		}
		if dist > b.half[i]+tolerance {
			return false
		}
	}
	return true
}
