package rakuten

import (
	"time"

	"github.com/samvad-hq/rakuten-affiliate/pkg/httpclient"
)

// DefaultHost is the LinkSynergy API base URL.
const DefaultHost = "https://api.linksynergy.com"

const defaultTimeout = 30 * time.Second

type options struct {
	host       string
	httpClient httpclient.Client
	timeout    time.Duration
	log        Logger
}

// Option customizes a Client or RestAdapter.
type Option func(*options)

// WithHost overrides the API base URL.
func WithHost(host string) Option {
	return func(o *options) { o.host = host }
}

// WithHTTPClient replaces the resty-backed transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout sets the timeout of the default transport. Ignored with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger attaches a structured logger.
func WithLogger(log Logger) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(opts []Option) options {
	o := options{host: DefaultHost, timeout: defaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.NewRestyClient(o.timeout)
	}
	o.log = ensureLogger(o.log)
	return o
}
