package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/adamwoolhether/httpc/client/header"
	"github.com/adamwoolhether/httpc/client/request"
	"github.com/adamwoolhether/httpc/client/task"
	"github.com/adamwoolhether/httpc/client/throttle"
)

// Client issues requests against an optional base URL with a list of
// default headers, either blocking or through a single async task slot.
// It remembers the last recorded response: a success replaces the body and
// status and clears the error, a failure only replaces the error.
//
// All state is per Client; two clients never share results. They share an
// async slot only when built with the same [WithSlot].
type Client struct {
	baseURL string
	headers *header.Store
	exec    *request.Executor
	slot    *task.Slot
	logger  *slog.Logger

	mu         sync.Mutex
	body       *string
	statusCode int
	lastErr    error
}

// Build returns a Client configured by optFns.
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	logger := slog.Default()
	if opts.logger != nil {
		logger = opts.logger
	}

	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case hc.Transport != nil:
		transport = hc.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.New(*opts.throttle, transport, throttle.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	hc.Transport = transport

	execOpts := []request.Option{request.WithLogger(logger)}
	if opts.tracer != nil {
		execOpts = append(execOpts, request.WithTracer(opts.tracer))
	}
	if opts.propagator != nil {
		execOpts = append(execOpts, request.WithPropagator(opts.propagator))
	}
	if opts.contentType != "" {
		execOpts = append(execOpts, request.WithDefaultContentType(opts.contentType))
	}

	exec, err := request.NewExecutor(hc, execOpts...)
	if err != nil {
		return nil, fmt.Errorf("configuring executor: %w", err)
	}

	slot := opts.slot
	if slot == nil {
		slot = task.NewSlot(task.WithLogger(logger))
	}

	c := Client{
		baseURL: opts.baseURL,
		headers: header.New(opts.headers...),
		exec:    exec,
		slot:    slot,
		logger:  logger,
	}

	return &c, nil
}

// Get performs a blocking GET of path.
func (c *Client) Get(ctx context.Context, path string) error {
	return c.do(ctx, request.MethodGet, path, nil)
}

// Post performs a blocking POST of body to path.
func (c *Client) Post(ctx context.Context, path, body string) error {
	return c.do(ctx, request.MethodPost, path, &body)
}

// Put performs a blocking PUT of body to path.
func (c *Client) Put(ctx context.Context, path, body string) error {
	return c.do(ctx, request.MethodPut, path, &body)
}

// Delete performs a blocking DELETE of path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, request.MethodDelete, path, nil)
}

// GetAsync starts a GET of path in the background. Collect it with [Client.Wait].
func (c *Client) GetAsync(ctx context.Context, path string) error {
	return c.start(ctx, request.MethodGet, path, nil)
}

// PostAsync starts a POST of body to path in the background.
func (c *Client) PostAsync(ctx context.Context, path, body string) error {
	return c.start(ctx, request.MethodPost, path, &body)
}

// PutAsync starts a PUT of body to path in the background.
func (c *Client) PutAsync(ctx context.Context, path, body string) error {
	return c.start(ctx, request.MethodPut, path, &body)
}

// DeleteAsync starts a DELETE of path in the background.
func (c *Client) DeleteAsync(ctx context.Context, path string) error {
	return c.start(ctx, request.MethodDelete, path, nil)
}

// Wait blocks until the outstanding async request finishes, records its
// outcome like a blocking call would, and frees the slot. It returns
// [ErrNoTaskInProgress] at once if nothing is outstanding.
func (c *Client) Wait() error {
	out, err := c.slot.Wait()
	if err != nil {
		return err
	}

	return c.record(out)
}

// Pending reports whether an async request occupies the slot.
func (c *Client) Pending() bool {
	return c.slot.Busy()
}

// SetHeader appends "key: value" to the default headers. Requests already
// started are not affected.
func (c *Client) SetHeader(key, value string) {
	c.headers.Append(key, value)
}

// Headers returns the default header lines in insertion order.
func (c *Client) Headers() []string {
	return c.headers.Lines()
}

// BaseURL returns the configured base URL, or "" if none.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusCode returns the status of the last successful exchange, or 0.
func (c *Client) StatusCode() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.statusCode
}

// ResponseBody returns the body of the last successful exchange. ok is
// false if no exchange has succeeded yet.
func (c *Client) ResponseBody() (body string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.body == nil {
		return "", false
	}

	return *c.body, true
}

// Err returns the error recorded by the last request, or nil if it
// succeeded.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr
}

// DecodeJSON decodes the last recorded response body into dest, which must
// be a pointer.
func (c *Client) DecodeJSON(dest any, opts ...DecodeOption) error {
	var settings decodeOpts
	for _, opt := range opts {
		opt(&settings)
	}

	body, ok := c.ResponseBody()
	if !ok {
		return errors.New("no response recorded")
	}

	d := json.NewDecoder(strings.NewReader(body))
	if settings.useJSONNum {
		d.UseNumber()
	}

	if err := d.Decode(dest); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}

	return nil
}

func (c *Client) spec(method request.Method, path string, body *string) request.Spec {
	return request.New(method, JoinURL(c.baseURL, path), body, c.headers.Snapshot())
}

func (c *Client) do(ctx context.Context, method request.Method, path string, body *string) error {
	return c.record(c.exec.Execute(ctx, c.spec(method, path, body)))
}

func (c *Client) start(ctx context.Context, method request.Method, path string, body *string) error {
	if _, err := c.slot.Start(ctx, c.spec(method, path, body), c.exec.Execute); err != nil {
		c.logger.Debug("async start rejected", "method", method, "path", path, "error", err)
		return fmt.Errorf("starting async %s: %w", method, err)
	}

	return nil
}

// record applies an outcome to the last-observed fields. On failure the
// previous body and status are left as they were.
func (c *Client) record(out request.Outcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !out.OK() {
		c.lastErr = out.Err()
		return out.Err()
	}

	body := out.Body()
	c.body = &body
	c.statusCode = out.StatusCode()
	c.lastErr = nil

	return nil
}
