// Package freeze holds the global time-stop switch. Flipping it locks or
// unlocks every card at once; cards created later inherit the state in
// force when they are created.
package freeze

import "github.com/zeusync/cardhouse/internal/core/observability/log"

// Target receives the new lock state for all of its cards in one call.
type Target interface {
	ApplyLock(locked bool)
}

type Controller struct {
	frozen  bool
	targets []Target
	logger  log.Log
}

func NewController(logger log.Log) *Controller {
	return &Controller{logger: logger.With(log.String("component", "freeze"))}
}

// Bind adds a target to cascade to. The target immediately receives the
// current state.
func (c *Controller) Bind(t Target) {
	c.targets = append(c.targets, t)
	t.ApplyLock(c.frozen)
}

func (c *Controller) Frozen() bool { return c.frozen }

// Set stores v and pushes it to every target before returning, even when v
// equals the current state.
func (c *Controller) Set(v bool) {
	c.frozen = v
	for _, t := range c.targets {
		t.ApplyLock(v)
	}
	c.logger.Info("time stop changed", log.Bool("frozen", v))
}

// Toggle flips the state and returns the new value.
func (c *Controller) Toggle() bool {
	c.Set(!c.frozen)
	return c.frozen
}
