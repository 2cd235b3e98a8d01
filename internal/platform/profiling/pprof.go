package profiling

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
)

// StartPprofServer starts a pprof listener on a separate port when
// ENABLE_PROFILING=true. The standard endpoints become available:
//
//   - /debug/pprof/heap - memory allocation profiling
//   - /debug/pprof/goroutine - goroutine stack traces
//   - /debug/pprof/profile - CPU profiling (30s default)
//   - /debug/pprof/allocs - all past memory allocations
//   - /debug/pprof/block - blocking operations
func StartPprofServer() {
	if os.Getenv("ENABLE_PROFILING") != "true" {
		return
	}

	pprofPort := os.Getenv("PPROF_PORT")
	if pprofPort == "" {
		pprofPort = "6060"
	}

	// Bind to localhost only so profiles are never exposed externally.
	addr := "localhost:" + pprofPort

	go func() {
		log.Printf("Starting pprof server on %s", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Printf("pprof server error: %v", err)
		}
	}()
}
