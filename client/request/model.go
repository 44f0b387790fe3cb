package request

import (
	"errors"
	"fmt"
	"slices"
)

// Method is the HTTP verb of a [Spec]. It is always chosen explicitly and
// never inferred from the presence of a body.
type Method string

// Supported methods.
const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// HasBody reports whether requests with this method carry an entity.
func (m Method) HasBody() bool {
	return m == MethodPost || m == MethodPut
}

func (m Method) String() string {
	return string(m)
}

var (
	// ErrTransport is the sentinel wrapped by [TransportError].
	ErrTransport = errors.New("transport failure")
	// ErrInvalidSpec is returned by [Spec.Validate] together with the
	// offending [FieldErrors].
	ErrInvalidSpec = errors.New("invalid request spec")
)

// TransportError is recorded when a request could not complete an HTTP
// exchange. Status codes never produce one.
type TransportError struct {
	Method Method
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrTransport, e.Method, e.URL, e.Err)
}

// Unwrap exposes both [ErrTransport] and the underlying cause.
func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// Spec describes one HTTP call. It is built by [New] and has no setters;
// the header lines are copied in and copied out.
type Spec struct {
	method  Method
	url     string
	body    *string
	headers []string
}

// New builds a Spec. body may be nil to mean "no body". headers is copied,
// so later changes to the caller's slice are not observed.
func New(method Method, url string, body *string, headers []string) Spec {
	s := Spec{
		method:  method,
		url:     url,
		headers: slices.Clone(headers),
	}
	if body != nil {
		b := *body
		s.body = &b
	}

	return s
}

// Method returns the verb.
func (s Spec) Method() Method { return s.method }

// URL returns the fully composed target.
func (s Spec) URL() string { return s.url }

// Body returns the entity and whether one was supplied.
func (s Spec) Body() (string, bool) {
	if s.body == nil {
		return "", false
	}

	return *s.body, true
}

// Headers returns a copy of the header lines in order.
func (s Spec) Headers() []string {
	return slices.Clone(s.headers)
}

// Outcome is the result of executing a [Spec]: either a success carrying
// the status code and body, or a failure carrying an error. A non-2xx status
// is still a success.
type Outcome struct {
	statusCode int
	body       string
	err        error
}

// Success returns a completed exchange.
func Success(statusCode int, body string) Outcome {
	return Outcome{statusCode: statusCode, body: body}
}

// Failure returns a failed exchange. A nil err is replaced so that the
// outcome is never mistaken for a success.
func Failure(err error) Outcome {
	if err == nil {
		err = ErrTransport
	}

	return Outcome{err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.err == nil }

// StatusCode returns the response status, or 0 on failure.
func (o Outcome) StatusCode() int { return o.statusCode }

// Body returns the full response body, or "" on failure.
func (o Outcome) Body() string { return o.body }

// Err returns the failure, or nil on success.
func (o Outcome) Err() error { return o.err }
