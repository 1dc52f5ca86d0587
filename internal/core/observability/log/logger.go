package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Log = (*Logger)(nil)

// Logger is the zap-backed Log.
type Logger struct {
	z     *zap.Logger
	level zap.AtomicLevel
}

// New builds a JSON logger writing to stderr.
func New(level Level) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level.zap())
	cfg.DisableCaller = true
	cfg.Sampling = nil
	return build(cfg)
}

// NewDevelopment builds a console logger with colored levels.
func NewDevelopment(level Level) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level.zap())
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	return build(cfg)
}

func NewNop() *Logger {
	return &Logger{z: zap.NewNop(), level: zap.NewAtomicLevelAt(LevelSilent.zap())}
}

// Wrap adopts an existing zap logger, such as one writing to a
// zaptest/observer core.
func Wrap(z *zap.Logger) *Logger {
	lvl := zap.NewAtomicLevelAt(zapcore.LevelOf(z.Core()))
	return &Logger{z: z, level: lvl}
}

func build(cfg zap.Config) *Logger {
	z, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{z: z, level: cfg.Level}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.write(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.write(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.write(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.write(LevelError, msg, fields) }

func (l *Logger) write(level Level, msg string, fields []Field) {
	if ce := l.z.Check(level.zap(), msg); ce != nil {
		ce.Write(zapFields(fields)...)
	}
}

func (l *Logger) With(fields ...Field) Log {
	return &Logger{z: l.z.With(zapFields(fields)...), level: l.level}
}

func (l *Logger) Enabled(level Level) bool {
	return level != LevelSilent && l.z.Core().Enabled(level.zap())
}

func (l *Logger) Level() Level { return Level(l.level.Level()) }

func (l *Logger) Sync() error { return l.z.Sync() }

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = f.z
	}
	return out
}
