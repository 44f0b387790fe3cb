package client

import (
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/httpc/client/header"
	"github.com/adamwoolhether/httpc/client/task"
	"github.com/adamwoolhether/httpc/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	baseURL           string
	headers           []string
	tracer            trace.Tracer
	propagator        propagation.TextMapPropagator
	contentType       string
	slot              *task.Slot
}

// WithClient replaces the default [http.Client] used by the [Client].
// The given client is copied, so later changes to it are not observed.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
// Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(value string) Option {
	return func(c *options) error {
		c.userAgent = value
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		cfg := throttle.Config{RPS: rps, Burst: burst}
		if err := cfg.Validate(); err != nil {
			return err
		}
		c.throttle = &cfg
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithBaseURL sets the URL every request path is joined to. See [JoinURL].
func WithBaseURL(baseURL string) Option {
	return func(c *options) error {
		c.baseURL = baseURL
		return nil
	}
}

// WithHeader appends one default header line. Repeated calls keep their order.
func WithHeader(key, value string) Option {
	return func(c *options) error {
		c.headers = append(c.headers, header.Line(key, value))
		return nil
	}
}

// WithHeaders appends default header lines from a map, in sorted key order.
func WithHeaders(headers map[string]string) Option {
	return func(c *options) error {
		for _, k := range slices.Sorted(maps.Keys(headers)) {
			c.headers = append(c.headers, header.Line(k, headers[k]))
		}
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer used for request spans.
// A no-op tracer is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithPropagator sets the propagator that writes trace context into
// outgoing headers. The global otel propagator is used otherwise.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *options) error {
		if p == nil {
			return errors.New("propagator must not be nil")
		}
		c.propagator = p
		return nil
	}
}

// WithDefaultContentType overrides the Content-Type sent with POST and PUT
// bodies when no Content-Type header has been set.
func WithDefaultContentType(contentType string) Option {
	return func(c *options) error {
		if contentType == "" {
			return errors.New("cannot use empty content type")
		}
		c.contentType = contentType
		return nil
	}
}

// WithSlot makes the [Client] use the given async task slot instead of its
// own. Clients built with the same slot share the one-outstanding-task
// limit, and any of them may reap the task with Wait.
func WithSlot(slot *task.Slot) Option {
	return func(c *options) error {
		if slot == nil {
			return errors.New("slot must not be nil")
		}
		c.slot = slot
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// DecodeOption is a functional option for [Client.DecodeJSON].
type DecodeOption func(*decodeOpts)

type decodeOpts struct {
	useJSONNum bool
}

// WithJSONNumb tells the JSON decoder to use [json.Decoder.UseNumber],
// preserving number precision as [json.Number] instead of float64.
func WithJSONNumb() DecodeOption {
	return func(opts *decodeOpts) {
		opts.useJSONNum = true
	}
}

// URLOption is a functional option for [URL].
type URLOption func(options *urlOpts)

type urlOpts struct {
	queryStrings map[string]string
	port         *int
}

// WithQueryStrings appends query parameters to the URL.
func WithQueryStrings(queryKV map[string]string) URLOption {
	return func(opts *urlOpts) {
		opts.queryStrings = queryKV
	}
}

// WithPort sets the port number on the URL's host.
func WithPort(port int) URLOption {
	return func(opts *urlOpts) {
		opts.port = &port
	}
}
