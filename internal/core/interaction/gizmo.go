package interaction

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/cardhouse/internal/core/geom"
)

// GizmoMode selects which handles the precision gizmo shows.
type GizmoMode uint8

const (
	GizmoTranslate GizmoMode = iota
	GizmoRotate
)

func (m GizmoMode) String() string {
	if m == GizmoRotate {
		return "rotate"
	}
	return "translate"
}

// Axis is one of the gizmo's local handle axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

type GizmoOptions struct {
	Start           geom.Vec3
	TranslationSnap float64 // world units
	RotationSnap    float64 // radians
}

func DefaultGizmoOptions() GizmoOptions {
	return GizmoOptions{
		Start:           geom.Vec3{0, 1.5, 0},
		TranslationSnap: 0.1,
		RotationSnap:    5 * math.Pi / 180,
	}
}

// Gizmo is the precision placement proxy. Handles work in the proxy's local
// space and every drag is snapped before it is applied.
type Gizmo struct {
	opts     GizmoOptions
	mode     GizmoMode
	position geom.Vec3
	basis    mgl64.Mat3
}

func NewGizmo(opts GizmoOptions) *Gizmo {
	g := &Gizmo{opts: opts}
	g.Reset()
	return g
}

func (g *Gizmo) Mode() GizmoMode       { return g.mode }
func (g *Gizmo) SetMode(m GizmoMode)   { g.mode = m }
func (g *Gizmo) Position() geom.Vec3   { return g.position }
func (g *Gizmo) Rotation() geom.Euler  { return geom.EulerFromMatrix(g.basis, geom.OrderXYZ) }
func (g *Gizmo) Basis() mgl64.Mat3     { return g.basis }
func (g *Gizmo) Options() GizmoOptions { return g.opts }

// Translate drags the translate handle of axis by distance, snapped to the
// translation step.
func (g *Gizmo) Translate(axis Axis, distance float64) {
	d := geom.SnapToGrid(distance, g.opts.TranslationSnap)
	if d == 0 {
		return
	}
	g.position = g.position.Add(g.basis.Col(int(axis)).Mul(d))
}

// Rotate turns the proxy about one of its local axes by angle radians,
// snapped to the rotation step.
func (g *Gizmo) Rotate(axis Axis, angle float64) {
	a := geom.SnapToGrid(angle, g.opts.RotationSnap)
	if a == 0 {
		return
	}
	var r mgl64.Mat3
	switch axis {
	case AxisX:
		r = mgl64.Rotate3DX(a)
	case AxisY:
		r = mgl64.Rotate3DY(a)
	default:
		r = mgl64.Rotate3DZ(a)
	}
	g.basis = g.basis.Mul3(r)
}

// Reset returns the proxy to its start pose in translate mode.
func (g *Gizmo) Reset() {
	g.mode = GizmoTranslate
	g.position = g.opts.Start
	g.basis = mgl64.Ident3()
}
