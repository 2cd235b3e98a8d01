// Package http builds pooled HTTP clients with consistent transport settings
// for all outbound calls.
package http

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout               = 30 * time.Second
	DefaultMaxIdleConns          = 100
	DefaultMaxIdleConnsPerHost   = 10
	DefaultIdleConnTimeout       = 90 * time.Second
	DefaultResponseHeaderTimeout = 30 * time.Second
	DefaultExpectContinueTimeout = 1 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
)

// NoTimeout disables a timeout field entirely, leaving the per-request
// context as the only deadline. Long-running calls (LLM generation) need
// this: their budgets exceed the package defaults.
const NoTimeout = time.Duration(-1)

// ClientConfig configures an outbound HTTP client. Zero fields use the
// package defaults above; NoTimeout removes the limit.
type ClientConfig struct {
	Timeout               time.Duration
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	ResponseHeaderTimeout time.Duration
	ExpectContinueTimeout time.Duration
	TLSHandshakeTimeout   time.Duration
	// Transport wraps the pooled transport when set, letting callers inject
	// header-decorating round trippers without losing pooling.
	Transport func(http.RoundTripper) http.RoundTripper
}

// NewClient builds an *http.Client with connection pooling. A nil cfg means
// all defaults.
func NewClient(cfg *ClientConfig) *http.Client {
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	} else if timeout < 0 {
		timeout = 0
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = DefaultMaxIdleConns
	}
	maxIdlePerHost := cfg.MaxIdleConnsPerHost
	if maxIdlePerHost == 0 {
		maxIdlePerHost = DefaultMaxIdleConnsPerHost
	}
	idleTimeout := cfg.IdleConnTimeout
	if idleTimeout == 0 {
		idleTimeout = DefaultIdleConnTimeout
	}
	headerTimeout := cfg.ResponseHeaderTimeout
	if headerTimeout == 0 {
		headerTimeout = DefaultResponseHeaderTimeout
	} else if headerTimeout < 0 {
		headerTimeout = 0
	}
	continueTimeout := cfg.ExpectContinueTimeout
	if continueTimeout == 0 {
		continueTimeout = DefaultExpectContinueTimeout
	}
	tlsTimeout := cfg.TLSHandshakeTimeout
	if tlsTimeout == 0 {
		tlsTimeout = DefaultTLSHandshakeTimeout
	}

	var rt http.RoundTripper = &http.Transport{
		MaxIdleConns:          maxIdle,
		MaxIdleConnsPerHost:   maxIdlePerHost,
		IdleConnTimeout:       idleTimeout,
		ResponseHeaderTimeout: headerTimeout,
		ExpectContinueTimeout: continueTimeout,
		TLSHandshakeTimeout:   tlsTimeout,
	}
	if cfg.Transport != nil {
		rt = cfg.Transport(rt)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: rt,
	}
}

// NewDefaultClient builds a client with all default settings.
func NewDefaultClient() *http.Client {
	return NewClient(nil)
}
