package rotation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/cardhouse/internal/core/geom"
)

func TestOrientationIsBasePlusOffset(t *testing.T) {
	r := NewResolver(DefaultOptions())
	r.SetMode(StandX)
	r.Step(Yaw, 1)
	r.Step(Pitch, -1)
	r.Step(Roll, 1)
	r.Step(Roll, 1)

	o := r.Orientation()
	assert.Equal(t, geom.OrderYXZ, o.Order)
	assert.InDelta(t, math.Pi/2-0.1, o.X, 1e-12)
	assert.InDelta(t, 0.1, o.Y, 1e-12)
	assert.InDelta(t, 0.2, o.Z, 1e-12)
}

func TestSetModeResetsPitchAndRollButKeepsYaw(t *testing.T) {
	r := NewResolver(DefaultOptions())
	r.Step(Yaw, 1)
	r.Step(Pitch, 1)
	r.Step(Roll, -1)

	r.SetMode(TiltZLeft)
	yaw, pitch, roll := r.Offsets()
	assert.InDelta(t, 0.1, yaw, 1e-12)
	assert.Zero(t, pitch)
	assert.Zero(t, roll)
}

func TestSetSameModeKeepsOffsets(t *testing.T) {
	r := NewResolver(DefaultOptions())
	r.Step(Pitch, 1)
	r.SetMode(Flat)
	_, pitch, _ := r.Offsets()
	assert.InDelta(t, 0.1, pitch, 1e-12)
}

func TestWheel(t *testing.T) {
	r := NewResolver(DefaultOptions())
	r.Wheel(5)
	r.Wheel(-10)
	yaw, _, _ := r.Offsets()
	require.Zero(t, yaw)

	r.Wheel(100)
	yaw, _, _ = r.Offsets()
	require.InDelta(t, 0.2, yaw, 1e-12)
}

func TestReset(t *testing.T) {
	r := NewResolver(DefaultOptions())
	r.Step(Yaw, 1)
	r.Step(Pitch, 1)
	r.Step(Roll, 1)
	r.Reset()
	yaw, pitch, roll := r.Offsets()
	require.Zero(t, yaw)
	require.Zero(t, pitch)
	require.Zero(t, roll)
}

func TestModes(t *testing.T) {
	require.Len(t, Modes(), 10)
	for _, m := range Modes() {
		require.True(t, m.Valid(), m)
	}

	m, ok := ModeForDigit('1')
	require.True(t, ok)
	require.Equal(t, Flat, m)
	m, ok = ModeForDigit('0')
	require.True(t, ok)
	require.Equal(t, RoofBack, m)
	_, ok = ModeForDigit('a')
	require.False(t, ok)

	m, err := ParseMode("roof_fwd")
	require.NoError(t, err)
	require.Equal(t, RoofFwd, m)
	_, err = ParseMode("sideways")
	require.ErrorIs(t, err, ErrUnknownMode)

	require.InDelta(t, 75*math.Pi/180, RoofFwd.Base().Pitch, 1e-12)
	require.InDelta(t, math.Pi/2, StandY.Base().Yaw, 1e-12)
}
