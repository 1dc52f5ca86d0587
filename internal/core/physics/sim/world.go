// Package sim is a small rigid-body engine for card-shaped boxes: gravity,
// damping, an infinite floor plane, oriented-box contacts resolved with
// impulses, and sleeping.
package sim

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/physics"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
)

type Options struct {
	Gravity        geom.Vec3
	FloorY         float64
	FloorFriction  float64
	SleepThreshold float64
	SleepTime      float64
	// MaxSubstep bounds the integration step; longer frames are split.
	MaxSubstep float64
	// MaxFrame drops the excess of very long frames (debugger pauses,
	// backgrounded windows).
	MaxFrame float64
	// Iterations is how many contact passes run per substep.
	Iterations int
}

func DefaultOptions() Options {
	return Options{
		Gravity:        geom.Vec3{0, -9.81, 0},
		FloorY:         0,
		FloorFriction:  0.9,
		SleepThreshold: 0.05,
		SleepTime:      1.0,
		MaxSubstep:     1.0 / 120,
		MaxFrame:       0.1,
		Iterations:     4,
	}
}

const contactTolerance = 0.01

// World owns every body. It is driven from one goroutine.
type World struct {
	opts   Options
	bodies map[string]*RigidBody
	order  []string
	logger log.Log
}

var _ physics.Engine = (*World)(nil)

func NewWorld(opts Options, logger log.Log) *World {
	return &World{
		opts:   opts,
		bodies: make(map[string]*RigidBody),
		logger: logger.With(log.String("component", "physics_world")),
	}
}

// CreateBody adds a box. An existing body with the same id is replaced.
func (w *World) CreateBody(id string, spec physics.BodySpec) physics.Body {
	if _, ok := w.bodies[id]; ok {
		w.DestroyBody(id)
	}
	b := &RigidBody{
		id:             id,
		pos:            spec.Position,
		half:           spec.HalfExtents,
		linearDamping:  spec.LinearDamping,
		angularDamping: spec.AngularDamping,
		friction:       spec.Friction,
		restitution:    spec.Restitution,
	}
	b.SetMass(spec.Mass)
	b.SetRotation(spec.Rotation)
	w.bodies[id] = b
	w.order = append(w.order, id)
	return b
}

func (w *World) DestroyBody(id string) {
	if _, ok := w.bodies[id]; !ok {
		return
	}
	delete(w.bodies, id)
	w.order = slices.DeleteFunc(w.order, func(s string) bool { return s == id })
}

func (w *World) Body(id string) (*RigidBody, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

// Bodies returns every body in creation order.
func (w *World) Bodies() []*RigidBody {
	out := make([]*RigidBody, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.bodies[id])
	}
	return out
}

func (w *World) Len() int { return len(w.order) }

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	if w.opts.MaxFrame > 0 && dt > w.opts.MaxFrame {
		w.logger.Debug("long frame clamped", log.Float64("dt", dt))
		dt = w.opts.MaxFrame
	}
	n := 1
	if w.opts.MaxSubstep > 0 {
		n = int(math.Ceil(dt / w.opts.MaxSubstep))
	}
	h := dt / float64(n)
	bodies := w.Bodies()
	for i := 0; i < n; i++ {
		w.substep(bodies, h)
	}
}

func (w *World) substep(bodies []*RigidBody, dt float64) {
	for _, b := range bodies {
		if b.active() {
			w.integrate(b, dt)
		}
	}

	// A resting body gains one substep of gravity before contacts cancel it;
	// only a harder hit wakes a sleeper.
	wake := w.opts.SleepThreshold + w.opts.Gravity.Len()*dt
	for range max(w.opts.Iterations, 1) {
		for i, a := range bodies {
			for _, b := range bodies[i+1:] {
				if !a.active() && !b.active() {
					continue
				}
				if n, depth, ok := overlap(a, b); ok {
					w.solve(a, b, n, depth, contactPoint(a, b), wake)
				}
			}
		}
		for _, b := range bodies {
			if b.active() {
				w.collideFloor(b)
			}
		}
	}

	for _, b := range bodies {
		if b.active() {
			w.updateSleep(b, dt)
		}
	}
}

func (w *World) integrate(b *RigidBody, dt float64) {
	b.vel = b.vel.Add(w.opts.Gravity.Mul(dt))
	b.vel = b.vel.Mul(math.Pow(1-b.linearDamping, dt))
	b.ang = b.ang.Mul(math.Pow(1-b.angularDamping, dt))

	b.pos = b.pos.Add(b.vel.Mul(dt))
	if speed := b.ang.Len(); speed > 0 {
		turn := mgl64.QuatRotate(speed*dt, b.ang.Mul(1/speed))
		b.rot = turn.Mul(b.rot).Normalize()
	}
}

// collideFloor pushes the box out of the floor plane and applies a contact
// impulse at the average of the penetrating corners.
func (w *World) collideFloor(b *RigidBody) {
	corners := b.corners()
	lowest := math.Inf(1)
	for _, c := range corners {
		lowest = math.Min(lowest, c[1])
	}
	depth := w.opts.FloorY - lowest
	if depth <= 0 {
		return
	}
	var contact geom.Vec3
	count := 0
	for _, c := range corners {
		if c[1] <= lowest+contactTolerance {
			contact = contact.Add(c)
			count++
		}
	}
	contact = contact.Mul(1 / float64(count))
	contact[1] = w.opts.FloorY
	w.solve(b, nil, geom.Up, depth, contact, math.Inf(1))
}

// solve separates a and b along n (pointing from b toward a), split by
// inverse mass, then applies restitution and friction impulses at contact.
// A nil b is the floor. Static and sleeping bodies do not move; a sleeper is
// woken first when the closing speed exceeds wake.
func (w *World) solve(a, b *RigidBody, n geom.Vec3, depth float64, contact geom.Vec3, wake float64) {
	rA := contact.Sub(a.pos)
	var rB geom.Vec3
	if b != nil {
		rB = contact.Sub(b.pos)
	}
	rel := a.pointVelocity(rA).Sub(b.pointVelocity(rB))
	vn := rel.Dot(n)

	if -vn > wake {
		a.wakeIfSleeping()
		b.wakeIfSleeping()
	}
	wa, wb := a.invMass(), b.invMass()
	if wa+wb == 0 {
		return
	}

	a.pos = a.pos.Add(n.Mul(depth * wa / (wa + wb)))
	if wb > 0 {
		b.pos = b.pos.Sub(n.Mul(depth * wb / (wa + wb)))
	}
	if vn > 0 {
		return
	}

	restitution, friction := a.restitution, (a.friction+w.opts.FloorFriction)/2
	if b != nil {
		restitution = (a.restitution + b.restitution) / 2
		friction = (a.friction + b.friction) / 2
	}

	denom := wa + wb
	if wa > 0 {
		rn := rA.Cross(n)
		denom += rn.Dot(rn) / a.inertia()
	}
	if wb > 0 {
		rn := rB.Cross(n)
		denom += rn.Dot(rn) / b.inertia()
	}

	impulse := n.Mul(-(1 + restitution) * vn / denom)
	a.applyImpulse(impulse, rA, wa)
	b.applyImpulse(impulse.Mul(-1), rB, wb)

	tangent := rel.Sub(n.Mul(vn))
	if tangent.Len() > 1e-4 {
		tangent = tangent.Normalize()
		f := tangent.Mul(-rel.Dot(tangent) * friction / denom)
		a.applyImpulse(f, rA, wa)
		b.applyImpulse(f.Mul(-1), rB, wb)
	}
}

func (w *World) updateSleep(b *RigidBody, dt float64) {
	if b.vel.Len() < w.opts.SleepThreshold && b.ang.Len() < w.opts.SleepThreshold {
		b.idle += dt
		if b.idle > w.opts.SleepTime {
			b.sleeping = true
			b.vel = geom.Vec3{}
			b.ang = geom.Vec3{}
		}
		return
	}
	b.idle = 0
}

// overlap runs a separating-axis test between two boxes. The returned normal
// points from b toward a.
func overlap(a, b *RigidBody) (geom.Vec3, float64, bool) {
	l := b.pos.Sub(a.pos)
	if l.Len() > a.half.Len()+b.half.Len() {
		return geom.Vec3{}, 0, false
	}

	basisA, basisB := a.Basis(), b.Basis()
	axes := make([]geom.Vec3, 0, 15)
	for i := 0; i < 3; i++ {
		axes = append(axes, basisA.Col(i), basisB.Col(i))
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c := basisA.Col(i).Cross(basisB.Col(j))
			if c.LenSqr() > 1e-4 {
				axes = append(axes, c.Normalize())
			}
		}
	}

	best := math.Inf(1)
	var normal geom.Vec3
	for _, axis := range axes {
		depth := geom.ProjectedRadius(basisA, a.half, axis) +
			geom.ProjectedRadius(basisB, b.half, axis) -
			math.Abs(l.Dot(axis))
		if depth <= 0 {
			return geom.Vec3{}, 0, false
		}
		if depth < best {
			best = depth
			normal = axis
		}
	}
	if l.Dot(normal) > 0 {
		normal = normal.Mul(-1)
	}
	return normal, best, true
}

// contactPoint averages the corners of each box found inside the other.
func contactPoint(a, b *RigidBody) geom.Vec3 {
	var sum geom.Vec3
	count := 0
	for _, c := range a.corners() {
		if b.contains(c, contactTolerance) {
			sum = sum.Add(c)
			count++
		}
	}
	for _, c := range b.corners() {
		if a.contains(c, contactTolerance) {
			sum = sum.Add(c)
			count++
		}
	}
	if count == 0 {
		return a.pos.Add(b.pos).Mul(0.5)
	}
	return sum.Mul(1 / float64(count))
}
