package rotation

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Mode is a discrete orientation preset.
type Mode string

const (
	Flat       Mode = "FLAT"
	StandX     Mode = "STAND_X" // landscape, standing on its long edge
	StandY     Mode = "STAND_Y" // StandX turned a quarter about Y
	StandZ     Mode = "STAND_Z" // portrait, standing on its short edge
	TiltXFwd   Mode = "TILT_X_FWD"
	TiltXBack  Mode = "TILT_X_BACK"
	TiltZLeft  Mode = "TILT_Z_LEFT"
	TiltZRight Mode = "TILT_Z_RIGHT"
	RoofFwd    Mode = "ROOF_FWD"
	RoofBack   Mode = "ROOF_BACK"
)

var ErrUnknownMode = errors.New("unknown rotation mode")

// Base is the fixed angle triple a preset starts from, in radians.
type Base struct {
	Pitch, Yaw, Roll float64
}

const (
	tilt = math.Pi / 4
	roof = 75 * math.Pi / 180
)

var bases = map[Mode]Base{
	Flat:       {},
	StandX:     {Pitch: math.Pi / 2},
	StandY:     {Pitch: math.Pi / 2, Yaw: math.Pi / 2},
	StandZ:     {Roll: math.Pi / 2},
	TiltXFwd:   {Pitch: tilt},
	TiltXBack:  {Pitch: -tilt},
	TiltZLeft:  {Roll: tilt},
	TiltZRight: {Roll: -tilt},
	RoofFwd:    {Pitch: roof},
	RoofBack:   {Pitch: -roof},
}

// Modes lists every preset in hotkey order: 1..9 then 0.
func Modes() []Mode {
	return []Mode{Flat, StandX, StandY, StandZ, TiltXFwd, TiltXBack, TiltZLeft, TiltZRight, RoofFwd, RoofBack}
}

// Base returns the preset's angle triple. Unknown modes yield the flat base.
func (m Mode) Base() Base {
	return bases[m]
}

func (m Mode) Valid() bool {
	_, ok := bases[m]
	return ok
}

func (m Mode) String() string { return string(m) }

// ParseMode accepts a preset name in any case.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return Flat, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// ModeForDigit maps a number-row key to its preset.
func ModeForDigit(d rune) (Mode, bool) {
	modes := Modes()
	switch {
	case d >= '1' && d <= '9':
		return modes[d-'1'], true
	case d == '0':
		return modes[9], true
	}
	return "", false
}
