package echo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is returned by handlers to reply with a specific status.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) error {
	setStatusCode(ctx, statusCode)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err = w.Write(jsonData); err != nil {
		return err
	}

	return nil
}

func respondText(ctx context.Context, w http.ResponseWriter, statusCode int, body string) error {
	setStatusCode(ctx, statusCode)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)

	if statusCode == http.StatusNoContent || statusCode == http.StatusNotModified {
		return nil
	}

	if _, err := w.Write([]byte(body)); err != nil {
		return err
	}

	return nil
}
