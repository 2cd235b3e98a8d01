package logger

// NoOpLogger discards everything. Useful as a test double and as the
// last-resort fallback when even the stderr logger cannot be built.
type NoOpLogger struct{}

// NewNop returns a Logger that does nothing.
func NewNop() Logger { return &NoOpLogger{} }

func (n *NoOpLogger) Debug(_ string, _ ...Field) {}
func (n *NoOpLogger) Info(_ string, _ ...Field)  {}
func (n *NoOpLogger) Warn(_ string, _ ...Field)  {}
func (n *NoOpLogger) Error(_ string, _ ...Field) {}
func (n *NoOpLogger) Fatal(_ string, _ ...Field) {}

func (n *NoOpLogger) With(_ ...Field) Logger { return n }

func (n *NoOpLogger) Sync() error { return nil }
