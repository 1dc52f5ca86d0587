package rotation

import (
	"math"

	"github.com/zeusync/cardhouse/internal/core/geom"
)

// Axis selects one of the three fine offsets.
type Axis uint8

const (
	Yaw Axis = iota
	Pitch
	Roll
)

// Options tunes the fine adjustment input.
type Options struct {
	Step          float64 // radians per key press
	WheelScale    float64 // radians per wheel delta unit
	WheelDeadzone float64 // wheel deltas at or below this magnitude are ignored
}

func DefaultOptions() Options {
	return Options{
		Step:          0.1,
		WheelScale:    0.002,
		WheelDeadzone: 10,
	}
}

// Resolver turns a preset plus fine yaw/pitch/roll offsets into a card
// orientation.
type Resolver struct {
	opts  Options
	mode  Mode
	yaw   float64
	pitch float64
	roll  float64
}

func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts, mode: Flat}
}

func (r *Resolver) Mode() Mode { return r.mode }

// SetMode switches presets. Pitch and roll offsets belong to the old preset's
// frame and are dropped; yaw carries over. Re-selecting the current preset
// keeps everything.
func (r *Resolver) SetMode(m Mode) {
	if m == r.mode {
		return
	}
	r.mode = m
	r.pitch = 0
	r.roll = 0
}

// Step nudges one offset by one key step in direction dir (+1 or -1).
func (r *Resolver) Step(axis Axis, dir float64) {
	d := r.opts.Step * dir
	switch axis {
	case Yaw:
		r.yaw += d
	case Pitch:
		r.pitch += d
	case Roll:
		r.roll += d
	}
}

// Wheel spins yaw from a scroll delta.
func (r *Resolver) Wheel(deltaY float64) {
	if math.Abs(deltaY) <= r.opts.WheelDeadzone {
		return
	}
	r.yaw += deltaY * r.opts.WheelScale
}

// Reset zeroes all offsets.
func (r *Resolver) Reset() {
	r.yaw, r.pitch, r.roll = 0, 0, 0
}

// Offsets returns the current fine adjustments.
func (r *Resolver) Offsets() (yaw, pitch, roll float64) {
	return r.yaw, r.pitch, r.roll
}

// Orientation is base(mode) + offsets, composed yaw outer, then pitch, then roll.
func (r *Resolver) Orientation() geom.Euler {
	b := r.mode.Base()
	return geom.Euler{
		X:     b.Pitch + r.pitch,
		Y:     b.Yaw + r.yaw,
		Z:     b.Roll + r.roll,
		Order: geom.OrderYXZ,
	}
}
