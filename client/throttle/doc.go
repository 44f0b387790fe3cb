// Package throttle provides an [http.RoundTripper] that rate-limits
// outbound HTTP requests using a token-bucket algorithm from
// [golang.org/x/time/rate].
//
// # Usage
//
// Wrap an existing transport with [New]:
//
//	rt, err := throttle.New(throttle.Config{RPS: 10, Burst: 5}, http.DefaultTransport,
//		throttle.WithLogger(slog.Default()),
//	)
//	httpClient := &http.Client{Transport: rt}
//
// When the bucket is empty, requests block until a token becomes available
// or the request context ends. Async requests share the same bucket as
// blocking ones.
package throttle
