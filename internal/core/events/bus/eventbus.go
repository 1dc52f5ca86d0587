package bus

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/cardhouse/internal/core/observability/log"
)

type event struct {
	kind   string
	source string
	at     time.Time
	data   any
}

func (e event) Type() string         { return e.kind }
func (e event) Source() string       { return e.source }
func (e event) Timestamp() time.Time { return e.at }
func (e event) Data() any            { return e.data }

func NewEvent(eventType, source string, data any) Event {
	return event{kind: eventType, source: source, at: time.Now(), data: data}
}

type route struct {
	topic, eventType string
}

type subscription struct {
	id      string
	route   route
	handler EventHandler
	bus     *memoryBus

	mu     sync.Mutex
	active bool
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) Topic() string     { return s.route.topic }
func (s *subscription) EventType() string { return s.route.eventType }

func (s *subscription) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *subscription) Cancel() error {
	s.mu.Lock()
	was := s.active
	s.active = false
	s.mu.Unlock()
	if was {
		s.bus.drop(s)
	}
	return nil
}

type memoryBus struct {
	mu        sync.RWMutex
	routes    map[route][]*subscription
	observers []Observer
	stats     Stats
}

func New() EventBus {
	return &memoryBus{routes: make(map[route][]*subscription)}
}

func (b *memoryBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	return b.SubscribeTopic("", eventType, handler)
}

func (b *memoryBus) SubscribeTopic(topic, eventType string, handler EventHandler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	s := &subscription{
		id:      uuid.NewString(),
		route:   route{topic: topic, eventType: eventType},
		handler: handler,
		bus:     b,
		active:  true,
	}
	b.mu.Lock()
	b.routes[s.route] = append(b.routes[s.route], s)
	b.mu.Unlock()
	return s, nil
}

func (b *memoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *memoryBus) drop(s *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	left := slices.DeleteFunc(b.routes[s.route], func(x *subscription) bool { return x == s })
	if len(left) == 0 {
		delete(b.routes, s.route)
		return
	}
	b.routes[s.route] = left
}

func (b *memoryBus) Publish(e Event) error {
	return b.PublishToTopic("", e)
}

func (b *memoryBus) PublishToTopic(topic string, e Event) error {
	start := time.Now()
	key := route{topic: topic, eventType: e.Type()}

	b.mu.RLock()
	subs := slices.Clone(b.routes[key])
	observers := slices.Clone(b.observers)
	b.mu.RUnlock()

	var errs []error
	delivered := 0
	for _, s := range subs {
		// cancelled by an earlier handler in this delivery
		if !s.Active() {
			continue
		}
		delivered++
		if err := s.handler(e); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)

	b.mu.Lock()
	b.stats.Published++
	b.stats.Delivered += uint64(delivered)
	if err != nil {
		b.stats.Failed++
	}
	b.mu.Unlock()

	took := time.Since(start)
	for _, obs := range observers {
		obs.Delivered(topic, e, delivered, err, took)
	}
	return err
}

func (b *memoryBus) AddObserver(obs Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !slices.Contains(b.observers, obs) {
		b.observers = append(b.observers, obs)
	}
}

func (b *memoryBus) RemoveObserver(obs Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = slices.DeleteFunc(b.observers, func(o Observer) bool { return o == obs })
}

func (b *memoryBus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stats
}

func (b *memoryBus) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []string
	for r := range b.routes {
		if !slices.Contains(out, r.topic) {
			out = append(out, r.topic)
		}
	}
	slices.Sort(out)
	return out
}

// LogObserver logs deliveries at debug level and failed handlers at warn.
type LogObserver struct {
	Logger log.Log
}

func (o LogObserver) Delivered(topic string, e Event, handlers int, err error, took time.Duration) {
	fields := []log.Field{
		log.String("topic", topic),
		log.String("event", e.Type()),
		log.String("source", e.Source()),
	}
	if err != nil {
		o.Logger.Warn("event handler failed", append(fields, log.Error(err))...)
		return
	}
	o.Logger.Debug("event delivered", append(fields, log.Int("handlers", handlers), log.Duration("took", took))...)
}
