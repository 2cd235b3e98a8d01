package logger

import (
	"context"
	"sync"
)

type ctxKey struct{}

var (
	fallbackOnce   sync.Once
	fallbackLogger Logger
)

// WithContext returns a copy of ctx carrying l. Request middleware stores a
// request-scoped logger here so downstream code logs with request fields.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx. When none is present it
// returns a shared warn-level stderr logger so callers never receive nil.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok && l != nil {
		return l
	}

	fallbackOnce.Do(func() {
		l, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
		if err != nil {
			l = NewNop()
		}
		fallbackLogger = l
	})
	return fallbackLogger
}
