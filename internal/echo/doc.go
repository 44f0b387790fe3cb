// Package echo serves a small deterministic HTTP service that reflects
// requests back to the caller. The client tests and examples run against
// it through [net/http/httptest].
package echo
