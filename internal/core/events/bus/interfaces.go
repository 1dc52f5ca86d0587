package bus

import (
	"errors"
	"fmt"
	"time"
)

// EventBus joins the card store to the parts of the sandbox that react to
// it. Delivery is synchronous: Publish runs every matching handler in the
// caller's goroutine, in subscription order, and returns their joined
// errors. Handlers may subscribe or cancel from inside a delivery.
type EventBus interface {
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil sub is ignored.
	Unsubscribe(sub Subscription) error

	Publish(event Event) error
	PublishToTopic(topic string, event Event) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)

	// Stats reports delivery counters since creation.
	Stats() Stats
	// Topics lists topics with live subscriptions, sorted by name.
	Topics() []string
}

type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type EventHandler func(event Event) error

type Subscription interface {
	ID() string
	Topic() string
	EventType() string
	Active() bool
	Cancel() error
}

// Observer sees every delivery after its handlers ran.
type Observer interface {
	Delivered(topic string, event Event, handlers int, err error, took time.Duration)
}

type Stats struct {
	Published uint64
	Delivered uint64
	Failed    uint64
}

var (
	ErrNilHandler = errors.New("bus: nil handler")
	ErrPayload    = errors.New("bus: unexpected payload")
)

// Payload extracts a typed payload from e.
func Payload[T any](e Event) (T, error) {
	v, ok := e.Data().(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s carries %T, want %T", ErrPayload, e.Type(), e.Data(), zero)
	}
	return v, nil
}

// Handle adapts a typed callback into an EventHandler.
func Handle[T any](fn func(T) error) EventHandler {
	return func(e Event) error {
		v, err := Payload[T](e)
		if err != nil {
			return err
		}
		return fn(v)
	}
}
