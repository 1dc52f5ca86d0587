package sandbox

import "github.com/zeusync/cardhouse/internal/core/cards"

// Body is a card's simulated state as rendered this frame.
type Body struct {
	ID       string     `json:"id" yaml:"id"`
	Position [3]float64 `json:"position" yaml:"position"`
	Rotation [3]float64 `json:"rotation" yaml:"rotation"`
	Static   bool       `json:"static" yaml:"static"`
	Sleeping bool       `json:"sleeping" yaml:"sleeping"`
}

// Snapshot is everything the UI shows: modes, cards and their bodies.
type Snapshot struct {
	Frame           uint64           `json:"frame" yaml:"frame"`
	RotationMode    string           `json:"rotation_mode" yaml:"rotation_mode"`
	Offsets         [3]float64       `json:"offsets" yaml:"offsets"` // yaw, pitch, roll
	InteractionMode string           `json:"interaction_mode" yaml:"interaction_mode"`
	PointerMode     string           `json:"pointer_mode" yaml:"pointer_mode"`
	GizmoMode       string           `json:"gizmo_mode" yaml:"gizmo_mode"`
	Frozen          bool             `json:"frozen" yaml:"frozen"`
	Dragging        string           `json:"dragging,omitempty" yaml:"dragging,omitempty"`
	Count           int              `json:"count" yaml:"count"`
	Cards           []cards.Snapshot `json:"cards" yaml:"cards"`
	Bodies          []Body           `json:"bodies" yaml:"bodies"`
}

func (s *Sandbox) Snapshot() Snapshot {
	yaw, pitch, roll := s.resolver.Offsets()
	snap := Snapshot{
		Frame:           s.frames,
		RotationMode:    s.resolver.Mode().String(),
		Offsets:         [3]float64{yaw, pitch, roll},
		InteractionMode: s.machine.Mode().String(),
		PointerMode:     s.machine.PointerMode().String(),
		GizmoMode:       s.machine.Gizmo().Mode().String(),
		Frozen:          s.freeze.Frozen(),
		Count:           s.store.Len(),
	}
	if id, ok := s.machine.Dragging(); ok {
		snap.Dragging = id
	}
	for _, c := range s.store.List() {
		snap.Cards = append(snap.Cards, c.Snapshot())
		if b, ok := s.world.Body(c.ID); ok {
			snap.Bodies = append(snap.Bodies, Body{
				ID:       c.ID,
				Position: b.Position(),
				Rotation: b.Rotation().Vec(),
				Static:   b.Static(),
				Sleeping: b.Sleeping(),
			})
		}
	}
	return snap
}
