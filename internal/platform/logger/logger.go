// Package logger wraps zap behind a small structured-logging interface so the
// rest of the codebase never imports zap directly.
package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a structured log field. Aliasing the zap type keeps call sites
// allocation-free while hiding the dependency behind this package's helpers.
type Field = zap.Field

// Logger is the logging interface used across the service.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

type zapLogger struct {
	l *zap.Logger
}

// New builds a Logger from cfg. The returned logger writes structured JSON
// (or console output) with ISO8601 timestamps and caller annotations.
func New(cfg Config) (Logger, error) {
	cfg.SetDefaults()

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = cfg.Format
	zapCfg.OutputPaths = cfg.OutputPaths
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if cfg.Development {
		zapCfg.Development = true
		zapCfg.Sampling = nil
	}

	zl, err := zapCfg.Build(
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return &zapLogger{l: zl}, nil
}

// Must is New for wiring paths where a logger failure is unrecoverable.
func Must(cfg Config) Logger {
	l, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf("logger: %v", err))
	}
	return l
}

func (z *zapLogger) Debug(msg string, fields ...Field) { z.l.Debug(msg, fields...) }
func (z *zapLogger) Info(msg string, fields ...Field)  { z.l.Info(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...Field)  { z.l.Warn(msg, fields...) }
func (z *zapLogger) Error(msg string, fields ...Field) { z.l.Error(msg, fields...) }
func (z *zapLogger) Fatal(msg string, fields ...Field) { z.l.Fatal(msg, fields...) }

func (z *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{l: z.l.With(fields...)}
}

func (z *zapLogger) Sync() error { return z.l.Sync() }

// Field constructors. Call sites use these instead of importing zap.

func String(key, value string) Field               { return zap.String(key, value) }
func Int(key string, value int) Field              { return zap.Int(key, value) }
func Int64(key string, value int64) Field          { return zap.Int64(key, value) }
func Float64(key string, value float64) Field      { return zap.Float64(key, value) }
func Bool(key string, value bool) Field            { return zap.Bool(key, value) }
func Duration(key string, value time.Duration) Field { return zap.Duration(key, value) }
func Time(key string, value time.Time) Field       { return zap.Time(key, value) }
func Error(err error) Field                        { return zap.Error(err) }
func NamedError(key string, err error) Field       { return zap.NamedError(key, err) }
func Strings(key string, value []string) Field     { return zap.Strings(key, value) }
func Any(key string, value interface{}) Field      { return zap.Any(key, value) }
