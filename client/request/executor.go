package request

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/httpc/client/header"
)

// DefaultContentType is sent with POST and PUT bodies when no Content-Type
// line is present.
const DefaultContentType = "application/x-www-form-urlencoded"

// Executor performs one HTTP exchange per [Spec] over an [http.Client].
// It is safe for concurrent use.
type Executor struct {
	hc          *http.Client
	logger      *slog.Logger
	tracer      trace.Tracer
	propagator  propagation.TextMapPropagator
	contentType string
}

// NewExecutor returns an Executor sending requests through hc. A nil hc
// means [http.DefaultClient].
func NewExecutor(hc *http.Client, optFns ...Option) (*Executor, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying executor option: %w", err)
		}
	}

	e := Executor{
		hc:          hc,
		logger:      opts.logger,
		tracer:      opts.tracer,
		propagator:  opts.propagator,
		contentType: opts.contentType,
	}

	if e.hc == nil {
		e.hc = http.DefaultClient
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.tracer == nil {
		e.tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}
	if e.propagator == nil {
		e.propagator = otel.GetTextMapPropagator()
	}
	if e.contentType == "" {
		e.contentType = DefaultContentType
	}

	return &e, nil
}

// Execute runs spec and blocks until the exchange finishes. Only a failure
// to complete the exchange is a failure; any status code is a success.
// There is no timeout beyond what ctx and the http.Client impose.
func (e *Executor) Execute(ctx context.Context, spec Spec) Outcome {
	ctx, span := e.tracer.Start(ctx, "httpc.execute", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", spec.Method().String()),
		attribute.String("url.full", spec.URL()),
	)

	if err := spec.Validate(); err != nil {
		return e.fail(span, spec, err)
	}

	req, err := e.build(ctx, spec)
	if err != nil {
		return e.fail(span, spec, err)
	}

	e.logger.Debug("request started", "method", spec.Method(), "url", spec.URL(), "headers", len(spec.headers))
	start := time.Now()

	resp, err := e.hc.Do(req)
	if err != nil {
		return e.fail(span, spec, fmt.Errorf("exec http do: %w", err))
	}

	body, err := e.read(resp)
	if err != nil {
		return e.fail(span, spec, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	e.logger.Debug("request completed", "method", spec.Method(), "url", spec.URL(), "statusCode", resp.StatusCode, "bytes", len(body), "since", time.Since(start).String())

	return Success(resp.StatusCode, body)
}

// build turns spec into an *http.Request. Only POST and PUT get an entity;
// an absent body on those is sent empty.
func (e *Executor) build(ctx context.Context, spec Spec) (*http.Request, error) {
	var body io.Reader = http.NoBody
	if spec.Method().HasBody() {
		b, _ := spec.Body()
		body = strings.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method().String(), spec.URL(), body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for _, line := range spec.headers {
		k, v, ok := header.Parse(line)
		if !ok {
			e.logger.Warn("skipping malformed header line", "line", line)
			continue
		}
		if strings.EqualFold(k, "Host") {
			req.Host = v
			continue
		}
		req.Header.Add(k, v)
	}

	if spec.Method().HasBody() && !header.Has(spec.headers, "Content-Type") {
		req.Header.Set("Content-Type", e.contentType)
	}

	e.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}

// read accumulates the entire body and closes it.
func (e *Executor) read(resp *http.Response) (string, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			e.logger.Error("failed to close response body", "error", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	return string(b), nil
}

func (e *Executor) fail(span trace.Span, spec Spec, err error) Outcome {
	terr := &TransportError{
		Method: spec.Method(),
		URL:    spec.URL(),
		Err:    err,
	}

	span.RecordError(terr)
	span.SetStatus(codes.Error, err.Error())
	e.logger.Error("request failed", "method", spec.Method(), "url", spec.URL(), "error", err)

	return Failure(terr)
}
