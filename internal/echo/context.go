package echo

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const (
	base ctxKey = iota + 1
)

// values are shared across one request for logging.
type values struct {
	RequestID  string
	TraceID    string
	Now        time.Time
	StatusCode int
}

func setValues(ctx context.Context, v *values) context.Context {
	return context.WithValue(ctx, base, v)
}

func getValues(ctx context.Context) *values {
	v, ok := ctx.Value(base).(*values)
	if !ok {
		return &values{
			RequestID: uuid.Nil.String(),
			Now:       time.Now(),
		}
	}

	return v
}

func setStatusCode(ctx context.Context, statusCode int) {
	v, ok := ctx.Value(base).(*values)
	if !ok {
		return
	}

	v.StatusCode = statusCode
}
