package httpclient

import (
	"context"
	"net/url"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	// Status is the status line text, e.g. "200 OK".
	Status() string
}

// Request describes a single outbound call. Form and JSONBody are mutually exclusive;
// JSONBody wins when both are set.
type Request struct {
	Method   string
	URL      string
	Headers  map[string]string
	Query    url.Values
	Form     url.Values
	JSONBody any
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Implementations must not treat non-2xx statuses as errors; classification belongs to the caller.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Do(ctx context.Context, req Request) (Response, error)
}
