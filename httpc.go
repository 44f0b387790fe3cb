// Package httpc exposes the client builder.
package httpc

import (
	"github.com/adamwoolhether/httpc/client"
)

// Version of the httpc module.
const Version = "0.1.0"

// NewClient instantiates a new *client.Client with the provided options.
// If not specified, a fresh http.Client over http.DefaultTransport is used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}
