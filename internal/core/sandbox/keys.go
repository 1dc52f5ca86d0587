package sandbox

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/zeusync/cardhouse/internal/core/interaction"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
	"github.com/zeusync/cardhouse/internal/core/rotation"
)

// Key applies one key press, named as a browser reports KeyboardEvent.key
// ("q", "7", " " or "Space", "Tab", "Enter", ...). It reports whether the
// key is bound.
func (s *Sandbox) Key(name string) bool {
	key := strings.ToLower(name)
	if key == " " {
		key = "space"
	}

	if r, size := utf8.DecodeRuneInString(key); size == len(key) {
		if m, ok := rotation.ModeForDigit(r); ok {
			s.resolver.SetMode(m)
			s.logger.Debug("rotation preset", log.Stringer("mode", m))
			return true
		}
	}

	switch key {
	case "q":
		s.resolver.Step(rotation.Yaw, 1)
	case "e":
		s.resolver.Step(rotation.Yaw, -1)
	case "r":
		// In precision placement R picks the rotate handles instead of pitch.
		if s.precisionPlacement() {
			s.machine.Gizmo().SetMode(interaction.GizmoRotate)
		} else {
			s.resolver.Step(rotation.Pitch, -1)
		}
	case "f":
		s.resolver.Step(rotation.Pitch, 1)
	case "z":
		s.resolver.Step(rotation.Roll, -1)
	case "x":
		s.resolver.Step(rotation.Roll, 1)
	case "space":
		s.resolver.Reset()
	case "t":
		s.machine.Gizmo().SetMode(interaction.GizmoTranslate)
	case "l":
		frozen := s.freeze.Toggle()
		s.logger.Debug("freeze toggled by key", log.Bool("frozen", frozen))
	case "tab":
		s.machine.ToggleMode()
	case "delete", "backspace":
		s.machine.SetPointerMode(interaction.PointerDelete)
	case "escape":
		s.machine.SetPointerMode(interaction.PointerPlace)
	case "m":
		s.machine.SetPointerMode(interaction.PointerMove)
	case "enter":
		if _, err := s.machine.ConfirmPrecision(); err != nil {
			if errors.Is(err, interaction.ErrNotPrecision) {
				s.logger.Debug("enter ignored outside precision placement")
			} else {
				s.logger.Warn("precision placement failed", log.Error(err))
			}
		}
	default:
		return false
	}
	return true
}

func (s *Sandbox) precisionPlacement() bool {
	return s.machine.PointerMode() == interaction.PointerPlace && s.machine.Mode() == interaction.Precision
}
