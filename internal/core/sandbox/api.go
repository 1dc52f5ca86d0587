package sandbox

import (
	"github.com/zeusync/cardhouse/internal/core/cards"
	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/interaction"
	"github.com/zeusync/cardhouse/internal/core/rotation"
)

// Cards returns the placed cards in insertion order.
func (s *Sandbox) Cards() []cards.Card { return s.store.List() }

func (s *Sandbox) Count() int { return s.store.Len() }

func (s *Sandbox) Card(id string) (cards.Card, bool) { return s.store.Get(id) }

// Add places a card as given. Its lock flag follows the freeze switch.
func (s *Sandbox) Add(card cards.Card) error { return s.store.Add(card) }

func (s *Sandbox) Remove(id string) bool { return s.store.Remove(id) }

func (s *Sandbox) Update(id string, pos geom.Vec3, rot geom.Euler) bool {
	return s.store.Update(id, pos, rot)
}

func (s *Sandbox) Clear() { s.store.Clear() }

func (s *Sandbox) RotationMode() rotation.Mode { return s.resolver.Mode() }

func (s *Sandbox) SetRotationMode(m rotation.Mode) error {
	if !m.Valid() {
		return rotation.ErrUnknownMode
	}
	s.resolver.SetMode(m)
	return nil
}

// Orientation is the candidate orientation for the next quick placement.
func (s *Sandbox) Orientation() geom.Euler { return s.resolver.Orientation() }

func (s *Sandbox) InteractionMode() interaction.Mode { return s.machine.Mode() }

func (s *Sandbox) SetInteractionMode(m interaction.Mode) { s.machine.SetMode(m) }

func (s *Sandbox) PointerMode() interaction.PointerMode { return s.machine.PointerMode() }

func (s *Sandbox) SetPointerMode(p interaction.PointerMode) { s.machine.SetPointerMode(p) }

func (s *Sandbox) Frozen() bool { return s.freeze.Frozen() }

func (s *Sandbox) SetFrozen(v bool) { s.freeze.Set(v) }

func (s *Sandbox) ToggleFrozen() bool { return s.freeze.Toggle() }

// ConfirmPrecision places a card at the gizmo, like the confirm button.
func (s *Sandbox) ConfirmPrecision() (cards.Card, error) { return s.machine.ConfirmPrecision() }

// Rebuild recreates every simulated body from the store.
func (s *Sandbox) Rebuild() { s.bridge.Rebuild() }
