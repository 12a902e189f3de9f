// Package metrics exports render activity as Prometheus metrics.
//
// Metrics collected (with the default namespace):
//   - vtree_operations_total: renders, rerenders and destroys by op and status
//   - vtree_operation_duration_seconds: duration of the same, by op
//   - vtree_components_created_total: component instances created, by kind
//   - vtree_components_destroyed_total: component instances destroyed, by kind
//   - vtree_components_live: instances currently alive, by kind
//   - vtree_recompute_failures_total: local failures by error code
//   - vtree_patches_total: document patches, when RecordPatches is called
//
// Example:
//
//	obs := metrics.New(metrics.WithNamespace("myapp"))
//	env := runtime.New(registry, runtime.WithObserver(obs))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/runtime"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "vtree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vtree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer records render activity. It implements runtime.Observer.
type Observer struct {
	operations        *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	created           *prometheus.CounterVec
	destroyed         *prometheus.CounterVec
	live              *prometheus.GaugeVec
	recomputeFailures *prometheus.CounterVec
	patches           prometheus.Counter
}

var _ runtime.Observer = (*Observer)(nil)

// New registers the metrics and returns an observer updating them.
// Registering twice with the same registry panics, as with promauto.
func New(opts ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Observer{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operations_total",
			Help:        "Total number of renders, rerenders and destroys",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "Render, rerender and destroy duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		created: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_created_total",
			Help:        "Total number of component instances created",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		destroyed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_destroyed_total",
			Help:        "Total number of component instances destroyed",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		live: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_live",
			Help:        "Number of component instances currently alive",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		recomputeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "recompute_failures_total",
			Help:        "Total number of local failures that kept a node's previous output",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		patches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of document patches applied",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// RenderStarted times the operation and counts it when it finishes.
func (o *Observer) RenderStarted(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()
	return ctx, func(err error) {
		o.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		status := "success"
		if err != nil {
			status = "error"
		}
		o.operations.WithLabelValues(op, status).Inc()
	}
}

func (o *Observer) ComponentCreated(_ context.Context, kind component.ManagerKind) {
	o.created.WithLabelValues(kind.String()).Inc()
	o.live.WithLabelValues(kind.String()).Inc()
}

func (o *Observer) ComponentDestroyed(_ context.Context, kind component.ManagerKind) {
	o.destroyed.WithLabelValues(kind.String()).Inc()
	o.live.WithLabelValues(kind.String()).Dec()
}

// RecomputeFailed counts err by its error code. Uncoded errors count as
// "unknown".
func (o *Observer) RecomputeFailed(_ context.Context, err error) {
	code := errors.CodeOf(err)
	if code == "" {
		code = "unknown"
	}
	o.recomputeFailures.WithLabelValues(code).Inc()
}

// RecordPatches records the number of patches applied to a document.
func (o *Observer) RecordPatches(count int) {
	o.patches.Add(float64(count))
}
