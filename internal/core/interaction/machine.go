// Package interaction turns pointer and keyboard input into card commits.
//
// The Machine holds the active PointerMode (place, move, delete) and
// placement Mode (quick, precision). Quick placement tracks a ghost under
// the pointer and commits on click; precision placement commits the gizmo
// proxy on an explicit confirm. The move tool drags an existing card: while
// held, the card is hidden from rendering, picking and simulation, and a
// ghost follows the pointer until release.
//
// Every mode change runs an exit hook that aborts a drag in progress, so no
// card is ever left hidden.
package interaction

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/cardhouse/internal/core/cards"
	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
	"github.com/zeusync/cardhouse/internal/core/placement"
	"github.com/zeusync/cardhouse/internal/core/raycast"
	"github.com/zeusync/cardhouse/internal/core/rotation"
)

var ErrNotPrecision = errors.New("precision placement is not active")

// Store is the card collection the machine commits to.
type Store interface {
	Add(card cards.Card) error
	Update(id string, pos geom.Vec3, rot geom.Euler) bool
	Remove(id string) bool
	Get(id string) (cards.Card, bool)
}

// RayProvider maps normalized device coordinates to a picking ray.
type RayProvider interface {
	Ray(ndcX, ndcY float64) geom.Ray
}

// Dealer picks the face of a newly placed card.
type Dealer interface {
	Draw() (cards.Suit, string)
}

// DragListener is told when a card is picked up and put down.
type DragListener interface {
	DragStarted(id string)
	DragEnded(id string)
}

type Options struct {
	// ClickThreshold is the pointer travel in pixels beyond which a release
	// counts as the end of a camera orbit, not a click.
	ClickThreshold float64
	Gizmo          GizmoOptions
}

func DefaultOptions() Options {
	return Options{
		ClickThreshold: 5,
		Gizmo:          DefaultGizmoOptions(),
	}
}

type drag struct {
	state  DragState
	id     string
	origin cards.Card
}

type Machine struct {
	opts     Options
	store    Store
	caster   raycast.Caster
	camera   RayProvider
	resolver *rotation.Resolver
	calc     *placement.Calculator
	preview  *placement.Preview
	gizmo    *Gizmo
	dealer   Dealer
	listener DragListener
	logger   log.Log

	pointer PointerMode
	mode    Mode
	drag    drag

	pressed bool
	downAt  mgl64.Vec2
}

func NewMachine(
	opts Options,
	store Store,
	caster raycast.Caster,
	camera RayProvider,
	resolver *rotation.Resolver,
	calc *placement.Calculator,
	dealer Dealer,
	listener DragListener,
	logger log.Log,
) *Machine {
	return &Machine{
		opts:     opts,
		store:    store,
		caster:   caster,
		camera:   camera,
		resolver: resolver,
		calc:     calc,
		preview:  placement.NewPreview(calc.Options().Smoothing),
		gizmo:    NewGizmo(opts.Gizmo),
		dealer:   dealer,
		listener: listener,
		logger:   logger.With(log.String("component", "interaction")),
	}
}

func (m *Machine) PointerMode() PointerMode { return m.pointer }
func (m *Machine) Mode() Mode               { return m.mode }
func (m *Machine) Gizmo() *Gizmo            { return m.gizmo }

// SetPointerMode switches tools. The exit hook always runs first.
func (m *Machine) SetPointerMode(p PointerMode) {
	m.exit()
	if p != m.pointer {
		m.logger.Debug("pointer mode changed", log.Stringer("from", m.pointer), log.Stringer("to", p))
	}
	m.pointer = p
}

// SetMode switches the placement technique. Changing it also resets the
// precision gizmo.
func (m *Machine) SetMode(mode Mode) {
	m.exit()
	if mode != m.mode {
		m.gizmo.Reset()
		m.logger.Debug("interaction mode changed", log.Stringer("from", m.mode), log.Stringer("to", mode))
	}
	m.mode = mode
}

func (m *Machine) ToggleMode() Mode {
	if m.mode == Quick {
		m.SetMode(Precision)
	} else {
		m.SetMode(Quick)
	}
	return m.mode
}

// exit leaves the current state cleanly: a held card is put back untouched
// and the ghost forgets its target.
func (m *Machine) exit() {
	m.abortDrag()
	m.preview.Reset()
	m.pressed = false
}

// Dragging returns the id of the held card.
func (m *Machine) Dragging() (string, bool) {
	return m.drag.id, m.drag.state == DragHeld
}

// Held returns the held card as it was when picked up.
func (m *Machine) Held() (cards.Card, bool) {
	return m.drag.origin, m.drag.state == DragHeld
}

// Presence reports how card id takes part in the scene right now.
func (m *Machine) Presence(id string) Presence {
	if m.drag.state == DragHeld && m.drag.id == id {
		return DragHeld.Presence()
	}
	return DragIdle.Presence()
}

// Ghost is the pose the preview is drawn at, if one is shown.
func (m *Machine) Ghost() (geom.Vec3, geom.Euler, bool) {
	if !m.ghostActive() {
		return geom.Vec3{}, geom.Euler{}, false
	}
	return m.preview.Displayed()
}

// Target is the raw pose a commit would use this frame.
func (m *Machine) Target() (placement.Candidate, bool) {
	if !m.ghostActive() {
		return placement.Candidate{}, false
	}
	return m.preview.Target()
}

func (m *Machine) ghostActive() bool {
	switch m.pointer {
	case PointerPlace:
		return m.mode == Quick
	case PointerMove:
		return m.drag.state == DragHeld
	}
	return false
}

// Frame runs once per rendered frame with the current pointer position.
func (m *Machine) Frame(ndc mgl64.Vec2) {
	if !m.ghostActive() {
		return
	}
	ray := m.camera.Ray(ndc.X(), ndc.Y())
	m.preview.Track(m.calc.Compute(ray, m.caster, m.resolver.Orientation()))
	m.preview.Advance()
}

func (m *Machine) PointerDown(screen, ndc mgl64.Vec2) {
	m.pressed = true
	m.downAt = screen

	if m.pointer == PointerMove && m.drag.state == DragIdle {
		if hit, ok := m.pick(ndc); ok {
			m.beginDrag(hit.ObjectID)
		}
	}
}

func (m *Machine) PointerUp(screen, ndc mgl64.Vec2) {
	if !m.pressed {
		return
	}
	m.pressed = false
	click := screen.Sub(m.downAt).Len() <= m.opts.ClickThreshold

	switch m.pointer {
	case PointerPlace:
		if m.mode == Quick && click {
			m.commitQuick()
		}
	case PointerMove:
		if m.drag.state == DragHeld {
			m.commitDrag()
		}
	case PointerDelete:
		if !click {
			return
		}
		if hit, ok := m.pick(ndc); ok {
			if m.store.Remove(hit.ObjectID) {
				m.logger.Debug("card deleted", log.String("id", hit.ObjectID))
			}
		}
	}
}

// pick returns the nearest card under the pointer that can be targeted.
func (m *Machine) pick(ndc mgl64.Vec2) (raycast.Hit, bool) {
	ray := m.camera.Ray(ndc.X(), ndc.Y())
	for _, h := range m.caster.Cast(ray) {
		if h.Kind != raycast.KindCard || !h.Visible || h.ObjectID == "" {
			continue
		}
		if !m.Presence(h.ObjectID).PointerTarget {
			continue
		}
		return h, true
	}
	return raycast.Hit{}, false
}

func (m *Machine) commitQuick() {
	target, ok := m.preview.Target()
	if !ok {
		return
	}
	suit, rank := m.dealer.Draw()
	card := cards.New(suit, rank, target.Position, target.Rotation)
	if err := m.store.Add(card); err != nil {
		m.logger.Warn("card placement rejected", log.Error(err))
		return
	}
	m.logger.Debug("card placed",
		log.String("id", card.ID),
		log.String("face", card.Label()),
		log.Vec("at", card.Position[0], card.Position[1], card.Position[2]),
	)
}

// ConfirmPrecision places a card at the gizmo pose. The gizmo stays where
// it is so cards can be laid out one step apart.
func (m *Machine) ConfirmPrecision() (cards.Card, error) {
	if m.pointer != PointerPlace || m.mode != Precision {
		return cards.Card{}, ErrNotPrecision
	}
	suit, rank := m.dealer.Draw()
	card := cards.New(suit, rank, m.gizmo.Position(), m.gizmo.Rotation())
	if err := m.store.Add(card); err != nil {
		return cards.Card{}, fmt.Errorf("precision placement: %w", err)
	}
	m.logger.Debug("card placed",
		log.String("id", card.ID),
		log.String("face", card.Label()),
		log.Vec("at", card.Position[0], card.Position[1], card.Position[2]),
	)
	added, _ := m.store.Get(card.ID)
	return added, nil
}

func (m *Machine) beginDrag(id string) {
	card, ok := m.store.Get(id)
	if !ok {
		return
	}
	m.drag = drag{state: DragHeld, id: id, origin: card}
	m.preview.Reset()
	m.listener.DragStarted(id)
	m.logger.Debug("drag started", log.String("id", id))
}

// commitDrag writes the ghost pose back into the held card. Without a
// target the card goes back where it was.
func (m *Machine) commitDrag() {
	id := m.drag.id
	if target, ok := m.preview.Target(); ok {
		if !m.store.Update(id, target.Position, target.Rotation) {
			m.logger.Debug("dragged card vanished before drop", log.String("id", id))
		}
	}
	m.endDrag()
}

func (m *Machine) abortDrag() {
	if m.drag.state != DragHeld {
		return
	}
	m.logger.Debug("drag aborted", log.String("id", m.drag.id))
	m.endDrag()
}

func (m *Machine) endDrag() {
	id := m.drag.id
	m.drag = drag{}
	m.preview.Reset()
	m.listener.DragEnded(id)
}
