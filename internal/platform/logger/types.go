package logger

// Config controls logger construction.
type Config struct {
	// Level is the minimum level to emit: debug, info, warn, error.
	Level string `yaml:"level" env:"LOG_LEVEL"`
	// Format selects the encoder: json or console.
	Format string `yaml:"format" env:"LOG_FORMAT"`
	// Development enables development behavior (no sampling, DPanic panics).
	Development bool `yaml:"development"`
	// OutputPaths lists zap output sinks. Defaults to stdout.
	OutputPaths []string `yaml:"output_paths"`
}

// SetDefaults fills unset fields with production defaults.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = []string{"stdout"}
	}
}
