package throttle

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// limiter is an http.RoundTripper that takes one token per request.
type limiter struct {
	bucket *rate.Limiter
	cfg    Config
	next   http.RoundTripper
	logFn  func() *slog.Logger
}

// Option is a functional option for [New].
type Option func(*limiter)

// WithLogger logs when the bucket runs dry and how long the request waited.
func WithLogger(logger *slog.Logger) Option {
	return func(l *limiter) {
		l.logFn = func() *slog.Logger { return logger }
	}
}

// WithLoggerFunc resolves the logger lazily at request time, so the caller
// may swap loggers after the transport is built.
func WithLoggerFunc(fn func() *slog.Logger) Option {
	return func(l *limiter) {
		l.logFn = fn
	}
}

// New returns a RoundTripper that admits at most cfg.RPS requests per second
// with bursts of cfg.Burst before delegating to next. A nil next means
// [http.DefaultTransport].
func New(cfg Config, next http.RoundTripper, opts ...Option) (http.RoundTripper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if next == nil {
		next = http.DefaultTransport
	}

	l := &limiter{
		bucket: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cfg:    cfg,
		next:   next,
		logFn:  func() *slog.Logger { return nil },
	}
	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

func (l *limiter) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	var logger *slog.Logger
	if l.logFn != nil {
		logger = l.logFn()
	}

	res := l.bucket.Reserve()
	if !res.OK() {
		return nil, fmt.Errorf("%w: burst %d too small", ErrWaitingFailed, l.cfg.Burst)
	}

	if delay := res.Delay(); delay > 0 {
		if logger != nil {
			logger.Info("throttle tokens exhausted", "rate", l.cfg.RPS, "burst", l.cfg.Burst, "path", r.URL.Path, "delay", delay.String())
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			res.Cancel()
			return nil, fmt.Errorf("%w: %w: %w", ErrWaitingFailed, ErrContextEnded, ctx.Err())
		}
	}

	return l.next.RoundTrip(r)
}
