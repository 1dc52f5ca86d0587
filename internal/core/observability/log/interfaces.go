package log

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the logging surface every sandbox component receives.
type Log interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	With(fields ...Field) Log
	Enabled(level Level) bool

	Sync() error
}

// Level orders like zapcore.Level; LevelSilent sits above every real level.
type Level int8

const (
	LevelDebug  = Level(zapcore.DebugLevel)
	LevelInfo   = Level(zapcore.InfoLevel)
	LevelWarn   = Level(zapcore.WarnLevel)
	LevelError  = Level(zapcore.ErrorLevel)
	LevelSilent = Level(zapcore.FatalLevel + 1)
)

var ErrUnknownLevel = errors.New("unknown log level")

var levelNames = map[Level]string{
	LevelDebug:  "debug",
	LevelInfo:   "info",
	LevelWarn:   "warn",
	LevelError:  "error",
	LevelSilent: "silent",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int8(l))
}

func (l Level) zap() zapcore.Level { return zapcore.Level(l) }

// ParseLevel accepts the level names plus "warning", "off" and "none".
// An empty string means info.
func ParseLevel(s string) (Level, error) {
	switch name := strings.ToLower(strings.TrimSpace(s)); name {
	case "":
		return LevelInfo, nil
	case "warning":
		return LevelWarn, nil
	case "off", "none":
		return LevelSilent, nil
	default:
		for l, n := range levelNames {
			if n == name {
				return l, nil
			}
		}
	}
	return LevelInfo, fmt.Errorf("%w %q", ErrUnknownLevel, s)
}

// Field is one structured key/value pair.
type Field struct {
	z zap.Field
}

func Bool(key string, val bool) Field              { return Field{zap.Bool(key, val)} }
func Duration(key string, val time.Duration) Field { return Field{zap.Duration(key, val)} }
func Float64(key string, val float64) Field        { return Field{zap.Float64(key, val)} }
func Int(key string, val int) Field                { return Field{zap.Int(key, val)} }
func String(key string, val string) Field          { return Field{zap.String(key, val)} }
func Uint64(key string, val uint64) Field          { return Field{zap.Uint64(key, val)} }
func Error(err error) Field                        { return Field{zap.Error(err)} }
func Stringer(key string, val fmt.Stringer) Field  { return Field{zap.String(key, val.String())} }
func Vec(key string, x, y, z float64) Field        { return Field{zap.Float64s(key, []float64{x, y, z})} }
