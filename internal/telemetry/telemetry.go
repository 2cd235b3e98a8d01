// Package telemetry provides OpenTelemetry instrumentation for the
// comparator service. It exports Prometheus metrics and provides tracing
// capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "comparator"

// Metrics holds all comparator Prometheus metrics.
type Metrics struct {
	// Article fetching
	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Generation pipeline
	GenerationAttempts *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	RateLimitHits      *prometheus.CounterVec

	// Search
	SearchesTotal   prometheus.Counter
	IndexSlugsTotal prometheus.Gauge
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}

	m.FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparator_fetches_total",
		Help: "Article fetches by source and outcome (found, not_found, error)",
	}, []string{"source", "outcome"})

	m.FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "comparator_fetch_duration_seconds",
		Help:    "Time to fetch a single article",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"source"})

	m.GenerationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparator_generation_attempts_total",
		Help: "Generation attempts by provider, kind, and outcome",
	}, []string{"provider", "kind", "outcome"})

	m.GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "comparator_generation_duration_seconds",
		Help:    "Time per provider generation attempt",
		Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 180},
	}, []string{"provider"})

	m.RateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "comparator_rate_limit_hits_total",
		Help: "Rate-limit responses by provider",
	}, []string{"provider"})

	m.SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "comparator_searches_total",
		Help: "Slug search requests served",
	})

	m.IndexSlugsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "comparator_index_slugs_total",
		Help: "Slugs loaded in the local index",
	})

	return m
}

// RecordFetch records a single article fetch.
func (p *Provider) RecordFetch(source, outcome string, duration time.Duration) {
	p.Metrics.FetchesTotal.WithLabelValues(source, outcome).Inc()
	p.Metrics.FetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordGenerationAttempt records one provider attempt within a generation
// request.
func (p *Provider) RecordGenerationAttempt(provider, kind, outcome string, duration time.Duration) {
	p.Metrics.GenerationAttempts.WithLabelValues(provider, kind, outcome).Inc()
	p.Metrics.GenerationDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordRateLimit records a provider rate-limit response.
func (p *Provider) RecordRateLimit(provider string) {
	p.Metrics.RateLimitHits.WithLabelValues(provider).Inc()
}

// RecordSearch records a served search request.
func (p *Provider) RecordSearch() {
	p.Metrics.SearchesTotal.Inc()
}

// SetIndexSlugCount sets the loaded slug gauge.
func (p *Provider) SetIndexSlugCount(count int) {
	p.Metrics.IndexSlugsTotal.Set(float64(count))
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
