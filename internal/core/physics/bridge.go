package physics

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/cardhouse/internal/core/cards"
	"github.com/zeusync/cardhouse/internal/core/events/bus"
	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
)

// Options are the body parameters the bridge applies.
type Options struct {
	DynamicMass    float64
	HiddenPosition geom.Vec3 // where a dragged card's body waits, out of view
	WakeNudge      geom.Vec3 // velocity given on unfreeze so sleeping bodies activate
	HalfExtents    geom.Vec3
	LinearDamping  float64
	AngularDamping float64
	Friction       float64
	Restitution    float64
}

func DefaultOptions() Options {
	return Options{
		DynamicMass:    0.1,
		HiddenPosition: geom.Vec3{0, -100, 0},
		WakeNudge:      geom.Vec3{0, 0.01, 0},
		HalfExtents:    geom.Vec3{1.0, 0.01, 1.4},
		LinearDamping:  0.5,
		AngularDamping: 0.5,
		Friction:       0.9,
		Restitution:    0,
	}
}

// Source is the authoritative card state the bridge converges toward.
type Source interface {
	Get(id string) (cards.Card, bool)
	IDs() []string
}

// synced is what the body last reflected for a card.
type synced struct {
	pose     uint64
	locked   bool
	dragging bool
}

// Bridge keeps one simulated body per card consistent with the card store.
// Simulation handles and sync records live in maps keyed by card id, apart
// from the cards themselves, so the simulation side can be rebuilt at will.
//
// Rules run only when a card's pose, lock flag or drag status changed, and
// drag status always wins over the lock flag.
type Bridge struct {
	engine Engine
	source Source
	opts   Options
	logger log.Log

	bodies   map[string]Body
	synced   map[string]synced
	dragging map[string]bool

	dirty    []string
	dirtySet map[string]struct{}

	subs []bus.Subscription
}

func NewBridge(engine Engine, source Source, b bus.EventBus, opts Options, logger log.Log) (*Bridge, error) {
	br := &Bridge{
		engine:   engine,
		source:   source,
		opts:     opts,
		logger:   logger.With(log.String("component", "physics_bridge")),
		bodies:   make(map[string]Body),
		synced:   make(map[string]synced),
		dragging: make(map[string]bool),
		dirtySet: make(map[string]struct{}),
	}

	handlers := []struct {
		eventType string
		handler   bus.EventHandler
	}{
		{cards.EventAdded, bus.Handle(br.onCard)},
		{cards.EventUpdated, bus.Handle(br.onCard)},
		{cards.EventRemoved, bus.Handle(br.onRemoved)},
		{cards.EventCleared, bus.Handle(br.onCleared)},
		{cards.EventLocked, bus.Handle(br.onLocked)},
	}
	for _, h := range handlers {
		sub, err := b.SubscribeTopic(cards.Topic, h.eventType, h.handler)
		if err != nil {
			br.Close()
			return nil, err
		}
		br.subs = append(br.subs, sub)
	}

	for _, id := range source.IDs() {
		br.markDirty(id)
	}
	return br, nil
}

// Close stops listening to store events.
func (b *Bridge) Close() {
	for _, s := range b.subs {
		_ = s.Cancel()
	}
	b.subs = nil
}

func (b *Bridge) onCard(c cards.Card) error {
	b.markDirty(c.ID)
	return nil
}

func (b *Bridge) onRemoved(id string) error {
	b.markDirty(id)
	return nil
}

func (b *Bridge) onCleared(ids []string) error {
	for _, id := range ids {
		b.markDirty(id)
	}
	return nil
}

func (b *Bridge) onLocked(change cards.LockChange) error {
	return b.onCleared(change.IDs)
}

// DragStarted takes a card's body out of the simulation until DragEnded.
func (b *Bridge) DragStarted(id string) {
	b.dragging[id] = true
	b.markDirty(id)
}

// DragEnded returns the body to the card's authoritative pose.
func (b *Bridge) DragEnded(id string) {
	delete(b.dragging, id)
	b.markDirty(id)
}

func (b *Bridge) markDirty(id string) {
	if _, ok := b.dirtySet[id]; ok {
		return
	}
	b.dirtySet[id] = struct{}{}
	b.dirty = append(b.dirty, id)
}

// Pending reports how many cards await reconciliation.
func (b *Bridge) Pending() int { return len(b.dirty) }

// Sync reconciles every card that changed since the last call.
func (b *Bridge) Sync() {
	dirty := b.dirty
	b.dirty = nil
	b.dirtySet = make(map[string]struct{})

	for _, id := range dirty {
		b.reconcile(id)
	}
}

// Step reconciles pending changes, then advances the simulation.
func (b *Bridge) Step(dt float64) {
	b.Sync()
	b.engine.Step(dt)
}

// Rebuild discards every body and recreates them from the store.
func (b *Bridge) Rebuild() {
	for id := range b.bodies {
		b.engine.DestroyBody(id)
	}
	b.bodies = make(map[string]Body)
	b.synced = make(map[string]synced)
	for _, id := range b.source.IDs() {
		b.markDirty(id)
	}
	b.Sync()
	b.logger.Info("simulation rebuilt", log.Int("bodies", len(b.bodies)))
}

// Body returns the simulation handle for a card.
func (b *Bridge) Body(id string) (Body, bool) {
	body, ok := b.bodies[id]
	return body, ok
}

func (b *Bridge) reconcile(id string) {
	card, ok := b.source.Get(id)
	if !ok {
		b.destroy(id)
		return
	}
	dragging := b.dragging[id]

	body, ok := b.bodies[id]
	if !ok {
		b.spawn(card, dragging)
		return
	}

	rec := b.synced[id]
	pose := poseFingerprint(card)

	if dragging != rec.dragging {
		if dragging {
			b.hide(body)
		} else {
			b.commit(body, card)
		}
		b.synced[id] = synced{pose: pose, locked: card.Locked, dragging: dragging}
		return
	}
	if dragging {
		return
	}

	if pose != rec.pose {
		b.commit(body, card)
		rec.pose = pose
	}
	if card.Locked != rec.locked {
		if card.Locked {
			b.lock(body)
		} else {
			b.unlock(body)
		}
		rec.locked = card.Locked
	}
	b.synced[id] = rec
}

func (b *Bridge) spawn(card cards.Card, dragging bool) {
	body := b.engine.CreateBody(card.ID, BodySpec{
		Position:       card.Position,
		Rotation:       card.Rotation,
		HalfExtents:    b.opts.HalfExtents,
		Mass:           b.opts.DynamicMass,
		LinearDamping:  b.opts.LinearDamping,
		AngularDamping: b.opts.AngularDamping,
		Friction:       b.opts.Friction,
		Restitution:    b.opts.Restitution,
	})
	b.bodies[card.ID] = body

	if dragging {
		b.hide(body)
	} else {
		b.commit(body, card)
		if card.Locked {
			b.lock(body)
		} else {
			b.unlock(body)
		}
	}
	b.synced[card.ID] = synced{pose: poseFingerprint(card), locked: card.Locked, dragging: dragging}
	b.logger.Debug("body created", log.String("id", card.ID), log.Bool("locked", card.Locked))
}

func (b *Bridge) destroy(id string) {
	if _, ok := b.bodies[id]; !ok {
		delete(b.dragging, id)
		return
	}
	b.engine.DestroyBody(id)
	delete(b.bodies, id)
	delete(b.synced, id)
	delete(b.dragging, id)
	b.logger.Debug("body destroyed", log.String("id", id))
}

// hide parks a dragged card's body: static, still, asleep and out of view.
func (b *Bridge) hide(body Body) {
	body.SetMass(0)
	body.SetVelocity(geom.Vec3{})
	body.SetAngularVelocity(geom.Vec3{})
	body.SetPosition(b.opts.HiddenPosition)
	body.Sleep()
}

// commit teleports the body onto the card. Velocities are cleared after the
// move so stale momentum cannot fling it.
func (b *Bridge) commit(body Body, card cards.Card) {
	body.SetPosition(card.Position)
	body.SetRotation(card.Rotation)
	body.SetVelocity(geom.Vec3{})
	body.SetAngularVelocity(geom.Vec3{})
	if !card.Locked {
		body.SetMass(b.opts.DynamicMass)
		body.WakeUp()
	}
}

func (b *Bridge) lock(body Body) {
	body.SetMass(0)
	body.SetVelocity(geom.Vec3{})
	body.SetAngularVelocity(geom.Vec3{})
}

func (b *Bridge) unlock(body Body) {
	body.SetMass(b.opts.DynamicMass)
	body.WakeUp()
	body.SetVelocity(b.opts.WakeNudge)
}

func poseFingerprint(c cards.Card) uint64 {
	var buf [48]byte
	vals := [6]float64{
		c.Position[0], c.Position[1], c.Position[2],
		c.Rotation.X, c.Rotation.Y, c.Rotation.Z,
	}
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return xxhash.Sum64(buf[:])
}
