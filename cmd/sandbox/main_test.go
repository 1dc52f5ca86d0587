package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/cardhouse/internal/core/interaction"
	"github.com/zeusync/cardhouse/internal/core/observability/log"
	"github.com/zeusync/cardhouse/internal/core/rotation"
	"github.com/zeusync/cardhouse/internal/core/sandbox"
)

func newSandbox(t *testing.T) *sandbox.Sandbox {
	t.Helper()
	opts := sandbox.DefaultOptions()
	opts.DealerSeed = 11
	sb, err := sandbox.New(opts, log.NewNop())
	require.NoError(t, err)
	t.Cleanup(sb.Close)
	return sb
}

func TestLoadScript(t *testing.T) {
	src := `
steps:
  - mode: stand_x
    key: q
  - pointer: {action: click, ndc: [0.1, -0.2]}
    frames: 5
  - gizmo: {axis: y, rotate: 90}
`
	s, err := LoadScript(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, "stand_x", s.Steps[0].Mode)
	assert.Equal(t, "q", s.Steps[0].Key)
	require.NotNil(t, s.Steps[1].Pointer)
	assert.Equal(t, "click", s.Steps[1].Pointer.Action)
	assert.Equal(t, [2]float64{0.1, -0.2}, s.Steps[1].Pointer.NDC)
	assert.Equal(t, 5, s.Steps[1].Frames)
	assert.Equal(t, 90.0, s.Steps[2].Gizmo.Rotate)
}

func TestLoadScriptRejectsUnknownFields(t *testing.T) {
	_, err := LoadScript(strings.NewReader("steps:\n  - jump: true\n"))
	require.Error(t, err)
}

func TestDemoScriptParses(t *testing.T) {
	s, err := LoadScript(bytes.NewReader(demoScript))
	require.NoError(t, err)
	assert.NotEmpty(t, s.Steps)
}

func TestPlayerAppliesModes(t *testing.T) {
	sb := newSandbox(t)
	frozen := true
	p := &player{sb: sb, dt: 1.0 / 60}

	require.NoError(t, p.apply(0, Step{
		Mode:        "roof_fwd",
		Interaction: "precision",
		PointerMode: "move",
		Freeze:      &frozen,
	}))

	assert.Equal(t, rotation.RoofFwd, sb.RotationMode())
	assert.Equal(t, interaction.Precision, sb.InteractionMode())
	assert.Equal(t, interaction.PointerMove, sb.PointerMode())
	assert.True(t, sb.Frozen())
}

func TestPlayerCountsFrames(t *testing.T) {
	sb := newSandbox(t)
	var ticks int
	p := &player{sb: sb, dt: 1.0 / 60, tick: func() { ticks++ }}

	require.NoError(t, p.apply(0, Step{Frames: 3}))
	require.NoError(t, p.apply(1, Step{Pointer: &PointerInput{Action: "move"}}))
	assert.Equal(t, 4, ticks)
	assert.EqualValues(t, 4, sb.Snapshot().Frame)
}

func TestPlayerClickPlacesCard(t *testing.T) {
	sb := newSandbox(t)
	p := &player{sb: sb, dt: 1.0 / 60}

	require.NoError(t, p.apply(0, Step{Pointer: &PointerInput{Action: "click"}}))
	assert.Equal(t, 1, sb.Count())

	require.NoError(t, p.apply(1, Step{Clear: true}))
	assert.Zero(t, sb.Count())
}

func TestPlayerErrors(t *testing.T) {
	cases := map[string]Step{
		"rotation mode":  {Mode: "sideways"},
		"interaction":    {Interaction: "slow"},
		"pointer mode":   {PointerMode: "paint"},
		"unbound key":    {Key: "p"},
		"gizmo axis":     {Gizmo: &GizmoStep{Axis: "w"}},
		"pointer action": {Pointer: &PointerInput{Action: "hover"}},
	}
	for name, st := range cases {
		t.Run(name, func(t *testing.T) {
			p := &player{sb: newSandbox(t), dt: 1.0 / 60}
			err := p.apply(2, st)
			require.ErrorIs(t, err, errBadStep)
			assert.Contains(t, err.Error(), "step 2")
		})
	}
}

func TestRunWritesFinalSnapshot(t *testing.T) {
	t.Setenv("CARDHOUSE_LOG_LEVEL", "silent")
	t.Setenv("CARDHOUSE_SCENE_DEALER_SEED", "5")

	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
steps:
  - pointer: {action: click, ndc: [0, 0]}
    frames: 10
  - key: l
    frames: 1
`), 0o600))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "", path, false, 4, &out))

	var snap sandbox.Snapshot
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &snap))
	assert.Equal(t, 1, snap.Count)
	assert.True(t, snap.Frozen)
	assert.EqualValues(t, 12, snap.Frame)
	require.Len(t, snap.Bodies, 1)
	assert.True(t, snap.Bodies[0].Static)
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Setenv("CARDHOUSE_LOG_LEVEL", "silent")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, "", "", false, 0, &out)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, out.Len())
}
