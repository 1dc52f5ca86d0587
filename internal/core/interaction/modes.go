package interaction

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownMode = errors.New("unknown interaction mode")

// PointerMode is the tool applied to pointer input.
type PointerMode uint8

const (
	PointerPlace PointerMode = iota
	PointerMove
	PointerDelete
)

func (m PointerMode) String() string {
	switch m {
	case PointerPlace:
		return "place"
	case PointerMove:
		return "move"
	case PointerDelete:
		return "delete"
	default:
		return fmt.Sprintf("PointerMode(%d)", uint8(m))
	}
}

func ParsePointerMode(s string) (PointerMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "place":
		return PointerPlace, nil
	case "move":
		return PointerMove, nil
	case "delete":
		return PointerDelete, nil
	}
	return 0, fmt.Errorf("%w: pointer mode %q", ErrUnknownMode, s)
}

// Mode is the placement technique: continuous tracking or an explicit gizmo.
type Mode uint8

const (
	Quick Mode = iota
	Precision
)

func (m Mode) String() string {
	switch m {
	case Quick:
		return "quick"
	case Precision:
		return "precision"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quick":
		return Quick, nil
	case "precision":
		return Precision, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// DragState is the Move tool's hold on a card.
type DragState uint8

const (
	DragIdle DragState = iota
	DragHeld
)

func (s DragState) String() string {
	if s == DragHeld {
		return "held"
	}
	return "idle"
}

// Presence is how a card takes part in the scene. The flags are independent
// even though today they all follow the drag state.
type Presence struct {
	Visible       bool // rendered
	PhysicsActive bool // simulated at its authoritative pose
	PointerTarget bool // eligible for raycast picking
}

func (s DragState) Presence() Presence {
	if s == DragHeld {
		return Presence{}
	}
	return Presence{Visible: true, PhysicsActive: true, PointerTarget: true}
}
