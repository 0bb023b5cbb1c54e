package oauthclient

import (
	"net/http"

	"github.com/jrsteele09/hubspot-oauth-quickstart/internal/metrics"
)

type options struct {
	httpClient *http.Client
	metrics    *metrics.Metrics
}

type Option func(*options)

// WithHTTPClient sets the client used for token endpoint calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
