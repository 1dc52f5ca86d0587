// Package sandbox assembles the card table: store, freeze switch, physics,
// raycasting and the interaction machine, driven one frame at a time.
//
// A Sandbox is owned by a single goroutine. Tick runs the interaction frame,
// reconciles changed cards into the simulation and steps it, in that order.
package sandbox

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/cardhouse/internal/core/cards"
	"github.com/zeusync/cardhouse/internal/core/events/bus"
	"github.com/zeusync/cardhouse/internal/core/freeze"
	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/interaction"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
	"github.com/zeusync/cardhouse/internal/core/physics"
	"github.com/zeusync/cardhouse/internal/core/physics/sim"
	"github.com/zeusync/cardhouse/internal/core/placement"
	"github.com/zeusync/cardhouse/internal/core/raycast"
	"github.com/zeusync/cardhouse/internal/core/rotation"
)

type Options struct {
	Rotation    rotation.Options
	Placement   placement.Options
	Interaction interaction.Options
	Bridge      physics.Options
	Sim         sim.Options
	Camera      geom.Camera
	FloorSize   float64
	// DealerSeed makes card faces reproducible; zero draws from a random seed.
	DealerSeed uint64
	// TraceEvents logs every store event delivery at debug level.
	TraceEvents bool
}

func DefaultOptions() Options {
	bridge := physics.DefaultOptions()
	bridge.HalfExtents = placement.CardHalfExtents
	return Options{
		Rotation:    rotation.DefaultOptions(),
		Placement:   placement.DefaultOptions(),
		Interaction: interaction.DefaultOptions(),
		Bridge:      bridge,
		Sim:         sim.DefaultOptions(),
		Camera:      geom.DefaultCamera(),
		FloorSize:   100,
	}
}

type Sandbox struct {
	opts   Options
	logger log.Log

	bus      bus.EventBus
	store    *cards.Store
	freeze   *freeze.Controller
	resolver *rotation.Resolver
	world    *sim.World
	bridge   *physics.Bridge
	scene    *raycast.Scene
	machine  *interaction.Machine

	frames uint64
}

func New(opts Options, logger log.Log) (*Sandbox, error) {
	eb := bus.New()
	if opts.TraceEvents {
		eb.AddObserver(bus.LogObserver{Logger: logger})
	}

	fc := freeze.NewController(logger)
	store := cards.NewStore(fc, eb, logger)
	fc.Bind(store)

	world := sim.NewWorld(opts.Sim, logger)
	bridge, err := physics.NewBridge(world, store, eb, opts.Bridge, logger)
	if err != nil {
		return nil, fmt.Errorf("sandbox: physics bridge: %w", err)
	}

	var dealer *cards.Dealer
	if opts.DealerSeed != 0 {
		dealer = cards.NewSeededDealer(opts.DealerSeed)
	} else {
		dealer = cards.NewDealer()
	}

	s := &Sandbox{
		opts:     opts,
		logger:   logger.With(log.String("component", "sandbox")),
		bus:      eb,
		store:    store,
		freeze:   fc,
		resolver: rotation.NewResolver(opts.Rotation),
		world:    world,
		bridge:   bridge,
	}
	s.scene = raycast.NewScene(opts.FloorSize, raycast.BoxSourceFunc(s.boxes))
	s.machine = interaction.NewMachine(
		opts.Interaction,
		store,
		s.scene,
		opts.Camera,
		s.resolver,
		placement.NewCalculator(opts.Placement),
		dealer,
		bridge,
		logger,
	)

	s.logger.Info("sandbox ready",
		log.Float64("floor_size", opts.FloorSize),
		log.Uint64("dealer_seed", opts.DealerSeed),
	)
	return s, nil
}

// Close detaches the physics bridge from the store.
func (s *Sandbox) Close() {
	s.bridge.Close()
}

// Tick advances one frame with the pointer at ndc.
func (s *Sandbox) Tick(ndc mgl64.Vec2, dt float64) {
	s.machine.Frame(ndc)
	s.bridge.Step(dt)
	s.frames++
}

func (s *Sandbox) PointerDown(screen, ndc mgl64.Vec2) { s.machine.PointerDown(screen, ndc) }
func (s *Sandbox) PointerUp(screen, ndc mgl64.Vec2)   { s.machine.PointerUp(screen, ndc) }

// Wheel spins the candidate yaw from a scroll delta.
func (s *Sandbox) Wheel(deltaY float64) { s.resolver.Wheel(deltaY) }

// boxes is what pointer rays can hit: every card at its simulated pose,
// plus the ghost while one is shown.
func (s *Sandbox) boxes() []raycast.Box {
	list := s.store.List()
	out := make([]raycast.Box, 0, len(list)+1)
	for _, c := range list {
		p := s.machine.Presence(c.ID)
		center, basis := c.Position, c.Rotation.Matrix()
		if b, ok := s.world.Body(c.ID); ok && p.PhysicsActive {
			center, basis = b.Position(), b.Basis()
		}
		out = append(out, raycast.Box{
			ID:      c.ID,
			Kind:    raycast.KindCard,
			Center:  center,
			Basis:   basis,
			Half:    s.opts.Placement.HalfExtents,
			Visible: p.Visible,
		})
	}
	if pos, rot, ok := s.machine.Ghost(); ok {
		out = append(out, raycast.Box{
			Kind:    raycast.KindGhost,
			Center:  pos,
			Basis:   rot.Matrix(),
			Half:    s.opts.Placement.HalfExtents,
			Visible: true,
		})
	}
	return out
}

// Cast exposes the scene raycast, nearest hit first.
func (s *Sandbox) Cast(ray geom.Ray) []raycast.Hit { return s.scene.Cast(ray) }

// Machine exposes the interaction state for rendering the ghost and gizmo.
func (s *Sandbox) Machine() *interaction.Machine { return s.machine }

// World exposes simulated poses for rendering.
func (s *Sandbox) World() *sim.World { return s.world }

func (s *Sandbox) Logger() log.Log { return s.logger }
