package echo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"time"
)

// handler is an http.Handler that returns an error.
type handler func(ctx context.Context, w http.ResponseWriter, r *http.Request) error

// middleware chains handlers together.
type middleware func(handler) handler

// wrap middleware around h, executing in the order given.
func wrap(mw []middleware, h handler) handler {
	for _, mwFn := range slices.Backward(mw) {
		if mwFn != nil {
			h = mwFn(h)
		}
	}

	return h
}

func logged(log *slog.Logger) middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v := getValues(ctx)

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = fmt.Sprintf("%s?%s", path, r.URL.RawQuery)
			}

			log.Info("request started", "request_id", v.RequestID, "method", r.Method, "path", path, "remoteaddr", r.RemoteAddr)

			err := next(ctx, w, r)

			log.Info("request completed", "request_id", v.RequestID, "method", r.Method, "path", path, "statusCode", v.StatusCode, "since", time.Since(v.Now).String())

			return err
		}
	}
}

func errored(log *slog.Logger) middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			err := next(ctx, w, r)
			if err == nil {
				return nil
			}

			appErr, ok := errors.AsType[*Error](err)
			if !ok {
				log.Error("handler failed", "request_id", getValues(ctx).RequestID, "error", err)
				appErr = &Error{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
			}

			return respondJSON(ctx, w, appErr.Code, appErr)
		}
	}
}

func panics() middleware {
	return func(next handler) handler {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(debug.Stack()))
				}
			}()

			return next(ctx, w, r)
		}
	}
}
