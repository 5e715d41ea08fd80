// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doctly

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ClientOption customizes a Client at construction time.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client built from the config. The
// config's HTTP timeout is ignored when this is set.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for per-step debug output.
func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *Client) { c.log = l }
}

// Option overrides a client default for a single ToMarkdown call.
type Option func(*callOptions)

type callOptions struct {
	pollInterval time.Duration
	timeout      time.Duration
}

// WithPollInterval sets the delay between status checks.
func WithPollInterval(d time.Duration) Option {
	return func(o *callOptions) { o.pollInterval = d }
}

// WithTimeout sets the wall-clock budget for the poll loop.
func WithTimeout(d time.Duration) Option {
	return func(o *callOptions) { o.timeout = d }
}
