package echo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// MaxDelay caps the wait served by /delay/{ms}.
const MaxDelay = 10 * time.Second

// Reply is the JSON document returned by the echo routes.
type Reply struct {
	RequestID string   `json:"request_id"`
	Method    string   `json:"method"`
	Path      string   `json:"path"`
	Query     string   `json:"query,omitempty"`
	Host      string   `json:"host"`
	Headers   []string `json:"headers"`
	Body      string   `json:"body"`
	TraceID   string   `json:"trace_id,omitempty"`
}

// Option configures the handler returned by [New].
type Option func(*service) error

// WithLogger sets the logger for request logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithPropagator sets the propagator used to read trace context from
// incoming headers.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(s *service) error {
		if p == nil {
			return errors.New("propagator must not be nil")
		}
		s.propagator = p
		return nil
	}
}

type service struct {
	logger     *slog.Logger
	propagator propagation.TextMapPropagator
	mw         []middleware
}

// New returns a handler that reflects requests back as JSON. Routes:
//
//	/anything[/...]   any method, echoes the request
//	/headers          any method, echoes only the header lines
//	GET /status/{code} replies with the given status and its text
//	GET /delay/{ms}    echoes the request after sleeping, capped at MaxDelay
func New(optFns ...Option) (http.Handler, error) {
	s := service{
		logger:     slog.Default(),
		propagator: otel.GetTextMapPropagator(),
	}
	for _, opt := range optFns {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("applying echo option: %w", err)
		}
	}
	s.mw = []middleware{logged(s.logger), errored(s.logger), panics()}

	mux := http.NewServeMux()
	s.handle(mux, "/anything", s.anything)
	s.handle(mux, "/anything/", s.anything)
	s.handle(mux, "/headers", s.headers)
	s.handle(mux, "GET /status/{code}", s.status)
	s.handle(mux, "GET /delay/{ms}", s.delay)

	return mux, nil
}

func (s *service) handle(mux *http.ServeMux, pattern string, h handler) {
	h = wrap(s.mw, h)

	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		ctx := s.propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		v := values{
			RequestID: uuid.NewString(),
			Now:       time.Now().UTC(),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			v.TraceID = sc.TraceID().String()
		}
		ctx = setValues(ctx, &v)

		w.Header().Set("X-Request-ID", v.RequestID)

		if err := h(ctx, w, r); err != nil {
			s.logger.Error("echo handler", "request_id", v.RequestID, "error", err)
		}
	})
}

func (s *service) anything(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	reply, err := mirror(ctx, r)
	if err != nil {
		return err
	}

	return respondJSON(ctx, w, http.StatusOK, reply)
}

func (s *service) headers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return respondJSON(ctx, w, http.StatusOK, struct {
		Headers []string `json:"headers"`
	}{Headers: headerLines(r)})
}

func (s *service) status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	code, err := strconv.Atoi(r.PathValue("code"))
	if err != nil || code < 200 || code > 599 {
		return newError(http.StatusBadRequest, "invalid status code %q", r.PathValue("code"))
	}

	return respondText(ctx, w, code, http.StatusText(code))
}

func (s *service) delay(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ms, err := strconv.Atoi(r.PathValue("ms"))
	if err != nil || ms < 0 {
		return newError(http.StatusBadRequest, "invalid delay %q", r.PathValue("ms"))
	}

	d := min(time.Duration(ms)*time.Millisecond, MaxDelay)

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	reply, err := mirror(ctx, r)
	if err != nil {
		return err
	}

	return respondJSON(ctx, w, http.StatusOK, reply)
}

func mirror(ctx context.Context, r *http.Request) (Reply, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return Reply{}, fmt.Errorf("reading request body: %w", err)
	}

	v := getValues(ctx)

	return Reply{
		RequestID: v.RequestID,
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		Host:      r.Host,
		Headers:   headerLines(r),
		Body:      string(body),
		TraceID:   v.TraceID,
	}, nil
}

// headerLines flattens the request header into "Key: value" lines, sorted
// by key. Values of a repeated key keep their wire order.
func headerLines(r *http.Request) []string {
	lines := make([]string, 0, len(r.Header))
	for _, k := range slices.Sorted(maps.Keys(r.Header)) {
		for _, v := range r.Header[k] {
			lines = append(lines, k+": "+v)
		}
	}

	return lines
}
