package client

import (
	"fmt"
	"net/url"
	"strings"
)

// JoinURL joins baseURL and path with exactly one "/" between them.
// An empty baseURL returns path unchanged, and an empty path returns
// baseURL unchanged, so re-joining a result with "" is a no-op.
func JoinURL(baseURL, path string) string {
	if baseURL == "" {
		return path
	}
	if path == "" {
		return baseURL
	}

	baseSlash := strings.HasSuffix(baseURL, "/")
	pathSlash := strings.HasPrefix(path, "/")

	switch {
	case baseSlash && pathSlash:
		return baseURL + path[1:]
	case baseSlash || pathSlash:
		return baseURL + path
	default:
		return baseURL + "/" + path
	}
}

// URL creates a url.URL, typically for use as a base with [WithBaseURL].
func URL(scheme, host, path string, opts ...URLOption) *url.URL {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	if settings.port != nil {
		host = fmt.Sprintf("%s:%d", host, *settings.port)
	}

	endpoint := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path,
	}

	if settings.queryStrings != nil {
		queryParams := url.Values{}
		for k, v := range settings.queryStrings {
			queryParams.Add(k, v)
		}

		endpoint.RawQuery = queryParams.Encode()
	}

	return &endpoint
}
