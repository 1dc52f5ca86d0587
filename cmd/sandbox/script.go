package main

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/cardhouse/internal/core/interaction"
	"github.com/zeusync/cardhouse/internal/core/rotation"
	"github.com/zeusync/cardhouse/internal/core/sandbox"
)

// Script is a recorded input session.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one scripted input. Fields apply in declaration order; Frames
// advances the simulation last.
type Step struct {
	Mode        string        `yaml:"mode,omitempty"`         // rotation preset
	Interaction string        `yaml:"interaction,omitempty"`  // quick | precision
	PointerMode string        `yaml:"pointer_mode,omitempty"` // place | move | delete
	Freeze      *bool         `yaml:"freeze,omitempty"`
	Keys        []string      `yaml:"keys,omitempty"`
	Key         string        `yaml:"key,omitempty"`
	Wheel       float64       `yaml:"wheel,omitempty"`
	Gizmo       *GizmoStep    `yaml:"gizmo,omitempty"`
	Pointer     *PointerInput `yaml:"pointer,omitempty"`
	Clear       bool          `yaml:"clear,omitempty"`
	Frames      int           `yaml:"frames,omitempty"`
}

type GizmoStep struct {
	Axis      string  `yaml:"axis"`
	Translate float64 `yaml:"translate,omitempty"`
	Rotate    float64 `yaml:"rotate,omitempty"` // degrees
}

// PointerInput moves the pointer to NDC and optionally presses or releases.
// Screen defaults to NDC mapped onto a 1280x720 viewport.
type PointerInput struct {
	Action string     `yaml:"action"` // move | down | up | click
	NDC    [2]float64 `yaml:"ndc"`
	Screen []float64  `yaml:"screen,omitempty"`
}

var errBadStep = errors.New("bad script step")

func LoadScript(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &s, nil
}

// player replays steps against a sandbox, keeping the pointer position
// between steps the way a real pointer would.
type player struct {
	sb  *sandbox.Sandbox
	dt  float64
	ndc mgl64.Vec2
	// tick is called for every frame the script advances.
	tick func()
}

func (p *player) apply(i int, st Step) error {
	fail := func(err error) error {
		return fmt.Errorf("%w %d: %w", errBadStep, i, err)
	}

	if st.Mode != "" {
		m, err := rotation.ParseMode(st.Mode)
		if err != nil {
			return fail(err)
		}
		if err := p.sb.SetRotationMode(m); err != nil {
			return fail(err)
		}
	}
	if st.Interaction != "" {
		m, err := interaction.ParseMode(st.Interaction)
		if err != nil {
			return fail(err)
		}
		p.sb.SetInteractionMode(m)
	}
	if st.PointerMode != "" {
		m, err := interaction.ParsePointerMode(st.PointerMode)
		if err != nil {
			return fail(err)
		}
		p.sb.SetPointerMode(m)
	}
	if st.Freeze != nil {
		p.sb.SetFrozen(*st.Freeze)
	}

	keys := st.Keys
	if st.Key != "" {
		keys = append(keys, st.Key)
	}
	for _, k := range keys {
		if !p.sb.Key(k) {
			return fail(fmt.Errorf("unbound key %q", k))
		}
	}
	if st.Wheel != 0 {
		p.sb.Wheel(st.Wheel)
	}
	if st.Gizmo != nil {
		axis, err := interaction.ParseAxis(st.Gizmo.Axis)
		if err != nil {
			return fail(err)
		}
		g := p.sb.Machine().Gizmo()
		g.Translate(axis, st.Gizmo.Translate)
		g.Rotate(axis, st.Gizmo.Rotate*math.Pi/180)
	}
	if st.Pointer != nil {
		if err := p.pointer(*st.Pointer); err != nil {
			return fail(err)
		}
	}
	if st.Clear {
		p.sb.Clear()
	}
	for f := 0; f < st.Frames; f++ {
		p.frame()
	}
	return nil
}

func (p *player) pointer(in PointerInput) error {
	p.ndc = mgl64.Vec2{in.NDC[0], in.NDC[1]}
	screen := mgl64.Vec2{(in.NDC[0] + 1) * 640, (1 - in.NDC[1]) * 360}
	if len(in.Screen) == 2 {
		screen = mgl64.Vec2{in.Screen[0], in.Screen[1]}
	}

	switch in.Action {
	case "", "move":
		p.frame()
	case "down":
		p.frame()
		p.sb.PointerDown(screen, p.ndc)
	case "up":
		p.frame()
		p.sb.PointerUp(screen, p.ndc)
	case "click":
		p.frame()
		p.sb.PointerDown(screen, p.ndc)
		p.sb.PointerUp(screen, p.ndc)
	default:
		return fmt.Errorf("unknown pointer action %q", in.Action)
	}
	return nil
}

func (p *player) frame() {
	p.sb.Tick(p.ndc, p.dt)
	if p.tick != nil {
		p.tick()
	}
}
