package echo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"

	"github.com/adamwoolhether/httpc/internal/echo"
)

func newServer(t *testing.T, opts ...echo.Option) *httptest.Server {
	t.Helper()

	opts = append([]echo.Option{echo.WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	h, err := echo.New(opts...)
	if err != nil {
		t.Fatalf("building echo handler: %v", err)
	}

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return srv
}

func TestAnything(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPut, srv.URL+"/anything/a/b?x=1", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Add("X-Multi", "one")
	req.Header.Add("X-Multi", "two")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("doing request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("exp status 200, got %d", resp.StatusCode)
	}

	var got echo.Reply
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}

	if _, err := uuid.Parse(got.RequestID); err != nil {
		t.Errorf("request id %q is not a uuid: %v", got.RequestID, err)
	}
	if got.RequestID != resp.Header.Get("X-Request-ID") {
		t.Errorf("reply id %q differs from header %q", got.RequestID, resp.Header.Get("X-Request-ID"))
	}

	exp := echo.Reply{
		Method: http.MethodPut,
		Path:   "/anything/a/b",
		Query:  "x=1",
		Host:   strings.TrimPrefix(srv.URL, "http://"),
		Body:   "payload",
	}
	if diff := cmp.Diff(exp, got, cmpopts.IgnoreFields(echo.Reply{}, "RequestID", "Headers")); diff != "" {
		t.Errorf("reply mismatch (-exp +got):\n%s", diff)
	}

	var multi []string
	for _, line := range got.Headers {
		if strings.HasPrefix(line, "X-Multi: ") {
			multi = append(multi, line)
		}
	}
	if diff := cmp.Diff([]string{"X-Multi: one", "X-Multi: two"}, multi); diff != "" {
		t.Errorf("repeated header mismatch (-exp +got):\n%s", diff)
	}
}

func TestStatus(t *testing.T) {
	srv := newServer(t)

	testCases := map[string]struct {
		path    string
		expCode int
		expBody string
	}{
		"created":    {path: "/status/201", expCode: http.StatusCreated, expBody: "Created"},
		"notFound":   {path: "/status/404", expCode: http.StatusNotFound, expBody: "Not Found"},
		"teapot":     {path: "/status/418", expCode: http.StatusTeapot, expBody: "I'm a teapot"},
		"serverErr":  {path: "/status/503", expCode: http.StatusServiceUnavailable, expBody: "Service Unavailable"},
		"outOfRange": {path: "/status/700", expCode: http.StatusBadRequest},
		"notNumber":  {path: "/status/abc", expCode: http.StatusBadRequest},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			if err != nil {
				t.Fatalf("doing request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.expCode {
				t.Errorf("exp status %d, got %d", tc.expCode, resp.StatusCode)
			}

			body, _ := io.ReadAll(resp.Body)
			if tc.expBody != "" && string(body) != tc.expBody {
				t.Errorf("exp body %q, got %q", tc.expBody, body)
			}
		})
	}
}

func TestStatus_WrongMethod(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Post(srv.URL+"/status/200", "text/plain", nil)
	if err != nil {
		t.Fatalf("doing request: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("exp status 405, got %d", resp.StatusCode)
	}
}

func TestDelay(t *testing.T) {
	srv := newServer(t)

	start := time.Now()
	resp, err := http.Get(srv.URL + "/delay/100")
	if err != nil {
		t.Fatalf("doing request: %v", err)
	}
	defer resp.Body.Close()

	if d := time.Since(start); d < 100*time.Millisecond {
		t.Errorf("exp at least 100ms, took %v", d)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("exp status 200, got %d", resp.StatusCode)
	}
}

func TestDelay_ClientGivesUp(t *testing.T) {
	srv := newServer(t)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/delay/5000", nil)

	start := time.Now()
	_, err := http.DefaultClient.Do(req)
	if err == nil {
		t.Fatal("exp error for abandoned request")
	}
	if d := time.Since(start); d > time.Second {
		t.Errorf("request should end with its context, took %v", d)
	}
}

func TestHeaders(t *testing.T) {
	srv := newServer(t)

	req, _ := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/headers", nil)
	req.Header.Set("B-Second", "2")
	req.Header.Set("A-First", "1")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("doing request: %v", err)
	}
	defer resp.Body.Close()

	var got struct {
		Headers []string `json:"headers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}

	var ours []string
	for _, line := range got.Headers {
		if strings.HasPrefix(line, "A-First") || strings.HasPrefix(line, "B-Second") {
			ours = append(ours, line)
		}
	}
	if diff := cmp.Diff([]string{"A-First: 1", "B-Second: 2"}, ours); diff != "" {
		t.Errorf("header lines mismatch (-exp +got):\n%s", diff)
	}
}

func TestTraceContextExtracted(t *testing.T) {
	srv := newServer(t, echo.WithPropagator(propagation.TraceContext{}))

	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"

	req, _ := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL+"/anything", nil)
	req.Header.Set("Traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("doing request: %v", err)
	}
	defer resp.Body.Close()

	var got echo.Reply
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding reply: %v", err)
	}

	if got.TraceID != traceID {
		t.Errorf("exp trace id %s, got %q", traceID, got.TraceID)
	}
}

func TestRequestsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	h, err := echo.New(echo.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	if err != nil {
		t.Fatalf("building echo handler: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status/204", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("exp status 204, got %d", rec.Code)
	}

	logs := buf.String()
	for _, want := range []string{"request started", "request completed", "statusCode=204"} {
		if !strings.Contains(logs, want) {
			t.Errorf("exp log to contain %q, got:\n%s", want, logs)
		}
	}
}

func TestNew_Options(t *testing.T) {
	if _, err := echo.New(echo.WithLogger(nil)); err == nil {
		t.Error("exp error for nil logger")
	}
	if _, err := echo.New(echo.WithPropagator(nil)); err == nil {
		t.Error("exp error for nil propagator")
	}
}
