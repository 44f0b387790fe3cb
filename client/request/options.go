package request

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for [NewExecutor].
type Option func(*options) error

type options struct {
	logger      *slog.Logger
	tracer      trace.Tracer
	propagator  propagation.TextMapPropagator
	contentType string
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracer sets the tracer used to open one client span per request.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		o.tracer = tracer
		return nil
	}
}

// WithPropagator sets the propagator that injects trace context into
// outgoing headers. The global otel propagator is used otherwise.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(o *options) error {
		if p == nil {
			return errors.New("propagator must not be nil")
		}
		o.propagator = p
		return nil
	}
}

// WithDefaultContentType sets the Content-Type sent with POST and PUT
// requests whose header lines do not carry one.
func WithDefaultContentType(contentType string) Option {
	return func(o *options) error {
		if contentType == "" {
			return errors.New("cannot use empty content type")
		}
		o.contentType = contentType
		return nil
	}
}
