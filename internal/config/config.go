// Package config loads sandbox settings from an optional YAML file, then
// applies CARDHOUSE_* environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
	"github.com/zeusync/cardhouse/internal/core/sandbox"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CARDHOUSE_"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Card      CardConfig      `yaml:"card" envPrefix:"CARD_"`
	Placement PlacementConfig `yaml:"placement" envPrefix:"PLACEMENT_"`
	Rotation  RotationConfig  `yaml:"rotation" envPrefix:"ROTATION_"`
	Gizmo     GizmoConfig     `yaml:"gizmo" envPrefix:"GIZMO_"`
	Physics   PhysicsConfig   `yaml:"physics" envPrefix:"PHYSICS_"`
	Scene     SceneConfig     `yaml:"scene" envPrefix:"SCENE_"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"LEVEL"`
	Development bool   `yaml:"development" env:"DEVELOPMENT"`
	TraceEvents bool   `yaml:"trace_events" env:"TRACE_EVENTS"`
}

// CardConfig is the full size of a card.
type CardConfig struct {
	Width     float64 `yaml:"width" env:"WIDTH"`
	Thickness float64 `yaml:"thickness" env:"THICKNESS"`
	Height    float64 `yaml:"height" env:"HEIGHT"`
}

type PlacementConfig struct {
	Epsilon        float64 `yaml:"epsilon" env:"EPSILON"`
	GridStep       float64 `yaml:"grid_step" env:"GRID_STEP"`
	FloorThreshold float64 `yaml:"floor_threshold" env:"FLOOR_THRESHOLD"`
	Smoothing      float64 `yaml:"smoothing" env:"SMOOTHING"`
	ClickThreshold float64 `yaml:"click_threshold" env:"CLICK_THRESHOLD"`
}

type RotationConfig struct {
	Step          float64 `yaml:"step" env:"STEP"`
	WheelScale    float64 `yaml:"wheel_scale" env:"WHEEL_SCALE"`
	WheelDeadzone float64 `yaml:"wheel_deadzone" env:"WHEEL_DEADZONE"`
}

type GizmoConfig struct {
	Start               []float64 `yaml:"start" env:"START" envSeparator:","`
	TranslationSnap     float64   `yaml:"translation_snap" env:"TRANSLATION_SNAP"`
	RotationSnapDegrees float64   `yaml:"rotation_snap_degrees" env:"ROTATION_SNAP_DEGREES"`
}

type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity" env:"GRAVITY"`
	DynamicMass    float64 `yaml:"dynamic_mass" env:"DYNAMIC_MASS"`
	LinearDamping  float64 `yaml:"linear_damping" env:"LINEAR_DAMPING"`
	AngularDamping float64 `yaml:"angular_damping" env:"ANGULAR_DAMPING"`
	Friction       float64 `yaml:"friction" env:"FRICTION"`
	FloorFriction  float64 `yaml:"floor_friction" env:"FLOOR_FRICTION"`
	Restitution    float64 `yaml:"restitution" env:"RESTITUTION"`
	SleepThreshold float64 `yaml:"sleep_threshold" env:"SLEEP_THRESHOLD"`
	SleepTime      float64 `yaml:"sleep_time" env:"SLEEP_TIME"`
	MaxSubstep     float64 `yaml:"max_substep" env:"MAX_SUBSTEP"`
	Iterations     int     `yaml:"iterations" env:"ITERATIONS"`
}

type SceneConfig struct {
	FloorSize      float64   `yaml:"floor_size" env:"FLOOR_SIZE"`
	CameraPosition []float64 `yaml:"camera_position" env:"CAMERA_POSITION" envSeparator:","`
	CameraTarget   []float64 `yaml:"camera_target" env:"CAMERA_TARGET" envSeparator:","`
	FovDegrees     float64   `yaml:"fov_degrees" env:"FOV_DEGREES"`
	Aspect         float64   `yaml:"aspect" env:"ASPECT"`
	FrameRate      int       `yaml:"frame_rate" env:"FRAME_RATE"`
	DealerSeed     uint64    `yaml:"dealer_seed" env:"DEALER_SEED"`
}

// Default mirrors the built-in component defaults.
func Default() Config {
	def := sandbox.DefaultOptions()
	half := def.Placement.HalfExtents
	cam := def.Camera
	return Config{
		Log: LogConfig{Level: "info"},
		Card: CardConfig{
			Width:     half[0] * 2,
			Thickness: half[1] * 2,
			Height:    half[2] * 2,
		},
		Placement: PlacementConfig{
			Epsilon:        def.Placement.Epsilon,
			GridStep:       def.Placement.GridStep,
			FloorThreshold: def.Placement.FloorThreshold,
			Smoothing:      def.Placement.Smoothing,
			ClickThreshold: def.Interaction.ClickThreshold,
		},
		Rotation: RotationConfig{
			Step:          def.Rotation.Step,
			WheelScale:    def.Rotation.WheelScale,
			WheelDeadzone: def.Rotation.WheelDeadzone,
		},
		Gizmo: GizmoConfig{
			Start:               def.Interaction.Gizmo.Start[:],
			TranslationSnap:     def.Interaction.Gizmo.TranslationSnap,
			RotationSnapDegrees: def.Interaction.Gizmo.RotationSnap * 180 / math.Pi,
		},
		Physics: PhysicsConfig{
			Gravity:        def.Sim.Gravity.Y(),
			DynamicMass:    def.Bridge.DynamicMass,
			LinearDamping:  def.Bridge.LinearDamping,
			AngularDamping: def.Bridge.AngularDamping,
			Friction:       def.Bridge.Friction,
			FloorFriction:  def.Sim.FloorFriction,
			Restitution:    def.Bridge.Restitution,
			SleepThreshold: def.Sim.SleepThreshold,
			SleepTime:      def.Sim.SleepTime,
			MaxSubstep:     def.Sim.MaxSubstep,
			Iterations:     def.Sim.Iterations,
		},
		Scene: SceneConfig{
			FloorSize:      def.FloorSize,
			CameraPosition: cam.Position[:],
			CameraTarget:   cam.Target[:],
			FovDegrees:     cam.FovY * 180 / math.Pi,
			Aspect:         cam.Aspect,
			FrameRate:      60,
		},
	}
}

// Load reads path (when not empty) over the defaults, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	_, err := log.ParseLevel(c.Log.Level)
	check(err == nil, "log.level %q", c.Log.Level)
	check(c.Card.Width > 0 && c.Card.Height > 0 && c.Card.Thickness > 0, "card dimensions must be positive")
	check(c.Placement.Epsilon >= 0, "placement.epsilon must not be negative")
	check(c.Placement.GridStep >= 0, "placement.grid_step must not be negative")
	check(c.Placement.FloorThreshold > 0 && c.Placement.FloorThreshold <= 1, "placement.floor_threshold must be in (0, 1]")
	check(c.Placement.Smoothing > 0 && c.Placement.Smoothing <= 1, "placement.smoothing must be in (0, 1]")
	check(c.Placement.ClickThreshold >= 0, "placement.click_threshold must not be negative")
	check(c.Rotation.Step > 0, "rotation.step must be positive")
	check(len(c.Gizmo.Start) == 3, "gizmo.start needs 3 components, got %d", len(c.Gizmo.Start))
	check(c.Gizmo.TranslationSnap >= 0 && c.Gizmo.RotationSnapDegrees >= 0, "gizmo snaps must not be negative")
	check(c.Physics.DynamicMass > 0, "physics.dynamic_mass must be positive")
	check(c.Physics.LinearDamping >= 0 && c.Physics.LinearDamping < 1, "physics.linear_damping must be in [0, 1)")
	check(c.Physics.AngularDamping >= 0 && c.Physics.AngularDamping < 1, "physics.angular_damping must be in [0, 1)")
	check(c.Physics.MaxSubstep > 0, "physics.max_substep must be positive")
	check(c.Physics.Iterations > 0, "physics.iterations must be positive")
	check(c.Scene.FloorSize > 0, "scene.floor_size must be positive")
	check(len(c.Scene.CameraPosition) == 3, "scene.camera_position needs 3 components")
	check(len(c.Scene.CameraTarget) == 3, "scene.camera_target needs 3 components")
	check(c.Scene.FovDegrees > 0 && c.Scene.FovDegrees < 180, "scene.fov_degrees must be in (0, 180)")
	check(c.Scene.Aspect > 0, "scene.aspect must be positive")
	check(c.Scene.FrameRate > 0, "scene.frame_rate must be positive")

	return errors.Join(errs...)
}

// Sandbox converts the settings into component options. c must be valid.
func (c Config) Sandbox() sandbox.Options {
	opts := sandbox.DefaultOptions()
	half := geom.Vec3{c.Card.Width / 2, c.Card.Thickness / 2, c.Card.Height / 2}

	opts.Placement.HalfExtents = half
	opts.Placement.Epsilon = c.Placement.Epsilon
	opts.Placement.GridStep = c.Placement.GridStep
	opts.Placement.FloorThreshold = c.Placement.FloorThreshold
	opts.Placement.Smoothing = c.Placement.Smoothing
	opts.Interaction.ClickThreshold = c.Placement.ClickThreshold

	opts.Rotation.Step = c.Rotation.Step
	opts.Rotation.WheelScale = c.Rotation.WheelScale
	opts.Rotation.WheelDeadzone = c.Rotation.WheelDeadzone

	opts.Interaction.Gizmo.Start = vec3(c.Gizmo.Start)
	opts.Interaction.Gizmo.TranslationSnap = c.Gizmo.TranslationSnap
	opts.Interaction.Gizmo.RotationSnap = c.Gizmo.RotationSnapDegrees * math.Pi / 180

	opts.Bridge.HalfExtents = half
	opts.Bridge.DynamicMass = c.Physics.DynamicMass
	opts.Bridge.LinearDamping = c.Physics.LinearDamping
	opts.Bridge.AngularDamping = c.Physics.AngularDamping
	opts.Bridge.Friction = c.Physics.Friction
	opts.Bridge.Restitution = c.Physics.Restitution

	opts.Sim.Gravity = geom.Vec3{0, c.Physics.Gravity, 0}
	opts.Sim.FloorFriction = c.Physics.FloorFriction
	opts.Sim.SleepThreshold = c.Physics.SleepThreshold
	opts.Sim.SleepTime = c.Physics.SleepTime
	opts.Sim.MaxSubstep = c.Physics.MaxSubstep
	opts.Sim.Iterations = c.Physics.Iterations

	opts.FloorSize = c.Scene.FloorSize
	opts.Camera.Position = vec3(c.Scene.CameraPosition)
	opts.Camera.Target = vec3(c.Scene.CameraTarget)
	opts.Camera.FovY = c.Scene.FovDegrees * math.Pi / 180
	opts.Camera.Aspect = c.Scene.Aspect
	opts.DealerSeed = c.Scene.DealerSeed
	opts.TraceEvents = c.Log.TraceEvents
	return opts
}

func vec3(v []float64) geom.Vec3 {
	var out geom.Vec3
	copy(out[:], v)
	return out
}
