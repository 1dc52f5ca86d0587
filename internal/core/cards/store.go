package cards

import (
	"fmt"
	"slices"

	"github.com/zeusync/cardhouse/internal/core/events/bus"
	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
)

// Topic carries every store change event.
const Topic = "cards"

// Store event types.
const (
	EventAdded   = "card.added"    // Data: Card
	EventUpdated = "card.updated"  // Data: Card
	EventRemoved = "card.removed"  // Data: string id
	EventCleared = "cards.cleared" // Data: []string ids
	EventLocked  = "cards.locked"  // Data: LockChange
)

// LockChange is the payload of EventLocked.
type LockChange struct {
	Locked bool
	IDs    []string
}

// LockPolicy supplies the global freeze state stamped on new and moved cards.
type LockPolicy interface {
	Frozen() bool
}

// Store is the authoritative, ordered list of placed cards. It is owned by
// the frame loop and is not safe for concurrent use.
type Store struct {
	cards  []Card
	issued map[string]struct{}
	policy LockPolicy
	bus    bus.EventBus
	logger log.Log
}

func NewStore(policy LockPolicy, b bus.EventBus, logger log.Log) *Store {
	return &Store{
		issued: make(map[string]struct{}),
		policy: policy,
		bus:    b,
		logger: logger.With(log.String("component", "card_store")),
	}
}

// Add appends card. Its lock flag is overwritten with the current freeze
// state. Ids are never reused, even after the card is removed.
func (s *Store) Add(card Card) error {
	if err := card.Validate(); err != nil {
		return err
	}
	if _, seen := s.issued[card.ID]; seen {
		return fmt.Errorf("%w: %s", ErrDuplicateID, card.ID)
	}
	card.Locked = s.policy.Frozen()
	s.issued[card.ID] = struct{}{}
	s.cards = append(s.cards, card)

	s.logger.Debug("card added",
		log.String("id", card.ID),
		log.String("face", card.Label()),
		log.Bool("locked", card.Locked),
	)
	s.publish(EventAdded, card)
	return nil
}

// Update moves an existing card and re-stamps its lock flag from the current
// freeze state. Unknown ids are ignored; the result reports whether a card
// was changed.
func (s *Store) Update(id string, pos geom.Vec3, rot geom.Euler) bool {
	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("update of unknown card ignored", log.String("id", id))
		return false
	}
	rot = rot.Reorder(geom.OrderXYZ)
	if !geom.IsFinite(pos) || !rot.IsFinite() {
		s.logger.Warn("non-finite pose rejected", log.String("id", id))
		return false
	}
	c := s.cards[i]
	c.Position = pos
	c.Rotation = rot
	c.Locked = s.policy.Frozen()
	s.cards[i] = c

	s.publish(EventUpdated, c)
	return true
}

// Remove deletes a card. Unknown ids are ignored.
func (s *Store) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.cards = slices.Delete(s.cards, i, i+1)
	s.logger.Debug("card removed", log.String("id", id))
	s.publish(EventRemoved, id)
	return true
}

// Clear removes every card.
func (s *Store) Clear() {
	ids := s.IDs()
	s.cards = nil
	s.logger.Info("table cleared", log.Int("removed", len(ids)))
	s.publish(EventCleared, ids)
}

// ApplyLock replaces the contents with WithLock(contents, locked) in one step.
func (s *Store) ApplyLock(locked bool) {
	s.cards = WithLock(s.cards, locked)
	s.publish(EventLocked, LockChange{Locked: locked, IDs: s.IDs()})
}

func (s *Store) Get(id string) (Card, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Card{}, false
	}
	return s.cards[i], true
}

// List returns a copy of the cards in insertion order.
func (s *Store) List() []Card {
	return slices.Clone(s.cards)
}

func (s *Store) IDs() []string {
	ids := make([]string, len(s.cards))
	for i, c := range s.cards {
		ids[i] = c.ID
	}
	return ids
}

func (s *Store) Len() int { return len(s.cards) }

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.cards, func(c Card) bool { return c.ID == id })
}

func (s *Store) publish(eventType string, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishToTopic(Topic, bus.NewEvent(eventType, "card_store", data)); err != nil {
		s.logger.Warn("store event handler failed", log.String("event", eventType), log.Error(err))
	}
}
