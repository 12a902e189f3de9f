// Package tracing records render activity as OpenTelemetry spans.
//
// Every render, rerender and destroy becomes a span named "vtree.<op>".
// Component creation and destruction are added to it as events, and local
// recompute failures are recorded as span errors.
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main() before rendering:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
//	env := runtime.New(registry, runtime.WithObserver(tracing.New()))
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/component"
	"github.com/vango-dev/vtree/pkg/runtime"
)

// Default tracer name for vtree.
const defaultTracerName = "github.com/vango-dev/vtree"

// Config configures the tracing observer.
type Config struct {
	// TracerName is the name of the tracer.
	TracerName string

	// Provider supplies the tracer. Default: otel.GetTracerProvider().
	Provider trace.TracerProvider

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// Option configures the tracing observer.
type Option func(*Config)

// WithTracerName sets the tracer name.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.Provider = tp
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *Config) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Observer traces render activity. It implements runtime.Observer.
type Observer struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

var _ runtime.Observer = (*Observer)(nil)

// New returns a tracing observer.
func New(opts ...Option) *Observer {
	config := Config{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Observer{
		tracer: config.Provider.Tracer(config.TracerName),
		attrs:  config.Attributes,
	}
}

// RenderStarted opens a span for op. The returned context carries it, so
// component events of the operation land on it.
func (o *Observer) RenderStarted(ctx context.Context, op string) (context.Context, func(error)) {
	attrs := append([]attribute.KeyValue{attribute.String("vtree.op", op)}, o.attrs...)
	ctx, span := o.tracer.Start(ctx, fmt.Sprintf("vtree.%s", op),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if code := errors.CodeOf(err); code != "" {
				span.SetAttributes(attribute.String("vtree.error_code", code))
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

func (o *Observer) ComponentCreated(ctx context.Context, kind component.ManagerKind) {
	trace.SpanFromContext(ctx).AddEvent("component.created",
		trace.WithAttributes(attribute.String("vtree.component_kind", kind.String())))
}

func (o *Observer) ComponentDestroyed(ctx context.Context, kind component.ManagerKind) {
	trace.SpanFromContext(ctx).AddEvent("component.destroyed",
		trace.WithAttributes(attribute.String("vtree.component_kind", kind.String())))
}

func (o *Observer) RecomputeFailed(ctx context.Context, err error) {
	trace.SpanFromContext(ctx).RecordError(err,
		trace.WithAttributes(attribute.String("vtree.error_code", errors.CodeOf(err))))
}
