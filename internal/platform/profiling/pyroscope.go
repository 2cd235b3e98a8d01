// Package profiling provides optional continuous profiling (Pyroscope) and a
// pprof listener, both gated by environment variables so production deploys
// can turn them on without a rebuild.
package profiling

import (
	"fmt"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"
)

// PyroscopeProfiler holds the Pyroscope profiler instance.
type PyroscopeProfiler struct {
	profiler *pyroscope.Profiler
}

// StartPyroscope initializes and starts Pyroscope continuous profiling.
// Configuration comes from environment variables:
//   - ENABLE_CONTINUOUS_PROFILING: set to "true" to enable (default: off)
//   - PYROSCOPE_SERVER_URL: Pyroscope server address (default: http://pyroscope:4040)
//   - PYROSCOPE_ENVIRONMENT: environment tag (default: development)
//
// Returns (nil, nil) when continuous profiling is disabled.
func StartPyroscope(serviceName string) (*PyroscopeProfiler, error) {
	if os.Getenv("ENABLE_CONTINUOUS_PROFILING") != "true" {
		return nil, nil
	}

	serverURL := os.Getenv("PYROSCOPE_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://pyroscope:4040"
	}

	environment := os.Getenv("PYROSCOPE_ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "unknown"
	}

	config := pyroscope.Config{
		ApplicationName: fmt.Sprintf("comparator.%s", serviceName),
		ServerAddress:   serverURL,

		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},

		Tags: map[string]string{
			"environment": environment,
			"version":     version,
			"hostname":    getHostname(),
			"go_version":  runtime.Version(),
		},
	}

	profiler, err := pyroscope.Start(config)
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	return &PyroscopeProfiler{profiler: profiler}, nil
}

// Stop gracefully stops the Pyroscope profiler.
func (p *PyroscopeProfiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

// getHostname returns the container hostname or "unknown".
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
