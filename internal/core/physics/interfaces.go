package physics

import "github.com/zeusync/cardhouse/internal/core/geom"

// Body is the engine-side handle for one card. Every setter is independent
// of the others.
type Body interface {
	SetMass(mass float64)
	SetPosition(p geom.Vec3)
	SetRotation(r geom.Euler)
	SetVelocity(v geom.Vec3)
	SetAngularVelocity(w geom.Vec3)
	Sleep()
	WakeUp()
}

// BodySpec describes a box body at creation.
type BodySpec struct {
	Position       geom.Vec3
	Rotation       geom.Euler
	HalfExtents    geom.Vec3
	Mass           float64
	LinearDamping  float64
	AngularDamping float64
	Friction       float64
	Restitution    float64
}

// Engine is the rigid-body simulation the bridge drives. Contact solving and
// integration happen behind Step.
type Engine interface {
	CreateBody(id string, spec BodySpec) Body
	DestroyBody(id string)
	Step(dt float64)
}
