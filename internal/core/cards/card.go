package cards

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/cardhouse/internal/core/geom"
)

type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
)

// Suits in deck order.
var Suits = []Suit{Spades, Hearts, Clubs, Diamonds}

// Ranks in deck order.
var Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

// Color of a suit: hearts and diamonds are red.
func (s Suit) Color() Color {
	if s == Hearts || s == Diamonds {
		return Red
	}
	return Black
}

func (s Suit) Valid() bool {
	switch s {
	case Spades, Hearts, Clubs, Diamonds:
		return true
	}
	return false
}

func validRank(r string) bool {
	for _, x := range Ranks {
		if x == r {
			return true
		}
	}
	return false
}

var (
	ErrInvalidCard = errors.New("invalid card")
	ErrDuplicateID = errors.New("card id already issued")
)

// Card is one placed playing card. Rotation is always in XYZ order.
type Card struct {
	ID       string
	Position geom.Vec3
	Rotation geom.Euler
	Suit     Suit
	Rank     string
	Locked   bool
}

// New builds a card with a fresh id. The rotation may be in any order; it
// is stored in XYZ order.
func New(suit Suit, rank string, pos geom.Vec3, rot geom.Euler) Card {
	return Card{
		ID:       uuid.NewString(),
		Position: pos,
		Rotation: rot.Reorder(geom.OrderXYZ),
		Suit:     suit,
		Rank:     rank,
	}
}

// Color is derived from the suit and cannot disagree with it.
func (c Card) Color() Color {
	return c.Suit.Color()
}

func (c Card) Validate() error {
	switch {
	case c.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidCard)
	case !c.Suit.Valid():
		return fmt.Errorf("%w: suit %q", ErrInvalidCard, c.Suit)
	case !validRank(c.Rank):
		return fmt.Errorf("%w: rank %q", ErrInvalidCard, c.Rank)
	case !geom.IsFinite(c.Position) || !c.Rotation.IsFinite():
		return fmt.Errorf("%w: non-finite pose", ErrInvalidCard)
	case c.Rotation.Order != geom.OrderXYZ:
		return fmt.Errorf("%w: rotation order %s", ErrInvalidCard, c.Rotation.Order)
	}
	return nil
}

// Label is the short face text, e.g. "10♥".
func (c Card) Label() string {
	sym := map[Suit]string{Spades: "♠", Hearts: "♥", Clubs: "♣", Diamonds: "♦"}[c.Suit]
	return c.Rank + sym
}

// WithLock is the freeze command: it returns a copy of list with every card's
// lock flag set to locked. The input is not modified.
func WithLock(list []Card, locked bool) []Card {
	out := make([]Card, len(list))
	for i, c := range list {
		c.Locked = locked
		out[i] = c
	}
	return out
}

// Snapshot is the presentation form of a card.
type Snapshot struct {
	ID       string     `json:"id" yaml:"id"`
	Position [3]float64 `json:"position" yaml:"position"`
	Rotation [3]float64 `json:"rotation" yaml:"rotation"`
	Suit     Suit       `json:"suit" yaml:"suit"`
	Rank     string     `json:"rank" yaml:"rank"`
	Color    Color      `json:"color" yaml:"color"`
	Locked   bool       `json:"locked" yaml:"locked"`
}

func (c Card) Snapshot() Snapshot {
	return Snapshot{
		ID:       c.ID,
		Position: c.Position,
		Rotation: c.Rotation.Vec(),
		Suit:     c.Suit,
		Rank:     c.Rank,
		Color:    c.Color(),
		Locked:   c.Locked,
	}
}
