package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/cardhouse/internal/core/geom"
	"github.com/zeusync/cardhouse/internal/core/sandbox"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cardhouse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultMatchesComponentDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	got, want := cfg.Sandbox(), sandbox.DefaultOptions()
	assert.True(t, got.Placement.HalfExtents.ApproxEqual(want.Placement.HalfExtents))
	assert.Equal(t, want.Placement.GridStep, got.Placement.GridStep)
	assert.Equal(t, want.Bridge.DynamicMass, got.Bridge.DynamicMass)
	assert.Equal(t, want.Interaction.Gizmo.Start, got.Interaction.Gizmo.Start)
	assert.InDelta(t, want.Interaction.Gizmo.RotationSnap, got.Interaction.Gizmo.RotationSnap, 1e-12)
	assert.InDelta(t, want.Camera.FovY, got.Camera.FovY, 1e-12)
	assert.Equal(t, want.Camera.Position, got.Camera.Position)
	assert.Equal(t, want.Sim.Gravity, got.Sim.Gravity)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
placement:
  grid_step: 0.25
gizmo:
  start: [1, 2, 3]
scene:
  dealer_seed: 11
`)
	t.Setenv("CARDHOUSE_PLACEMENT_GRID_STEP", "0.5")
	t.Setenv("CARDHOUSE_SCENE_CAMERA_TARGET", "0,1,0")
	t.Setenv("CARDHOUSE_PHYSICS_GRAVITY", "-3.7")
	t.Setenv("CARDHOUSE_PHYSICS_ITERATIONS", "6")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0.5, cfg.Placement.GridStep)
	assert.Equal(t, uint64(11), cfg.Scene.DealerSeed)

	opts := cfg.Sandbox()
	assert.Equal(t, geom.Vec3{1, 2, 3}, opts.Interaction.Gizmo.Start)
	assert.Equal(t, geom.Vec3{0, 1, 0}, opts.Camera.Target)
	assert.Equal(t, geom.Vec3{0, -3.7, 0}, opts.Sim.Gravity)
	assert.Equal(t, 6, opts.Sim.Iterations)
	assert.Equal(t, uint64(11), opts.DealerSeed)
	assert.Equal(t, 0.5, opts.Placement.GridStep)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	for name, body := range map[string]string{"empty": "", "comments only": "# nothing here\n"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, body))
			require.NoError(t, err)
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorContains(t, err, "open config")
	})
	t.Run("unknown field", func(t *testing.T) {
		_, err := Load(writeFile(t, "placement:\n  grid: 1\n"))
		require.ErrorContains(t, err, "decode config")
	})
	t.Run("bad env", func(t *testing.T) {
		t.Setenv("CARDHOUSE_SCENE_FRAME_RATE", "fast")
		_, err := Load("")
		require.ErrorContains(t, err, "parse env")
	})
	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeFile(t, "log:\n  level: loud\nscene:\n  fov_degrees: 200\n"))
		require.ErrorIs(t, err, ErrInvalid)
		assert.ErrorContains(t, err, "log.level")
		assert.ErrorContains(t, err, "scene.fov_degrees")
	})
}

func TestCardSizeFeedsPlacementAndPhysics(t *testing.T) {
	cfg := Default()
	cfg.Card = CardConfig{Width: 3, Thickness: 0.1, Height: 4}
	require.NoError(t, cfg.Validate())
	opts := cfg.Sandbox()
	assert.Equal(t, geom.Vec3{1.5, 0.05, 2}, opts.Placement.HalfExtents)
	assert.Equal(t, opts.Placement.HalfExtents, opts.Bridge.HalfExtents)
	assert.InDelta(t, 5*math.Pi/180, opts.Interaction.Gizmo.RotationSnap, 1e-12)
}
