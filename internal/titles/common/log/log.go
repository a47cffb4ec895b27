// Package log wraps zap behind a small field-map interface so that services
// can log without importing zap directly.
package log

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields are structured context attached to one entry.
type Fields = map[string]any

// Logger is the logging interface used across tabrename.
type Logger interface {
	Debug(fields Fields, msg string)
	Info(fields Fields, msg string)
	Warn(fields Fields, msg string)
	Error(fields Fields, msg string)
	// With returns a child logger that adds fields to every entry.
	With(fields Fields) Logger
}

type holder struct{ l Logger }

var global atomic.Pointer[holder]

func init() {
	global.Store(&holder{newZapLogger(false, zapcore.InfoLevel)})
}

// SetLogger replaces the global logger instance.
func SetLogger(l Logger) { global.Store(&holder{l}) }

// GetLogger returns the current global logger instance.
func GetLogger() Logger { return global.Load().l }

// Configure installs a global logger at the given level. Any env other than
// "prod" selects the colored console encoder instead of JSON.
func Configure(env, level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	SetLogger(newZapLogger(env != "prod", lvl))
	return nil
}

func Debug(fields Fields, msg string) { GetLogger().Debug(fields, msg) }
func Info(fields Fields, msg string)  { GetLogger().Info(fields, msg) }
func Warn(fields Fields, msg string)  { GetLogger().Warn(fields, msg) }
func Error(fields Fields, msg string) { GetLogger().Error(fields, msg) }

type zapLogger struct {
	z *zap.Logger
}

// newZapLogger writes to stderr; stdout belongs to command output.
func newZapLogger(dev bool, level zapcore.Level) Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if dev {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(enc)
	} else {
		encoder = zapcore.NewJSONEncoder(enc)
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(level))
	return &zapLogger{z: zap.New(core)}
}

func (l *zapLogger) Debug(fields Fields, msg string) { l.z.Debug(msg, zapFields(fields)...) }
func (l *zapLogger) Info(fields Fields, msg string)  { l.z.Info(msg, zapFields(fields)...) }
func (l *zapLogger) Warn(fields Fields, msg string)  { l.z.Warn(msg, zapFields(fields)...) }
func (l *zapLogger) Error(fields Fields, msg string) { l.z.Error(msg, zapFields(fields)...) }

func (l *zapLogger) With(fields Fields) Logger {
	return &zapLogger{z: l.z.With(zapFields(fields)...)}
}

// zapFields converts fields in key order, so repeated entries encode identically.
func zapFields(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]zap.Field, len(keys))
	for i, k := range keys {
		out[i] = zap.Any(k, fields[k])
	}
	return out
}

// NewNoopLogger returns a Logger that discards everything.
func NewNoopLogger() Logger { return &zapLogger{z: zap.NewNop()} }
