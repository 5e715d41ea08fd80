// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the wire and configuration types shared by the
// doctly client, the batch driver, and the CLI.
package types

import "time"

// Defaults applied when a config field is left zero.
const (
	DefaultBaseURL      = "https://api.doctly.ai"
	DefaultPollInterval = 5 * time.Second
	DefaultTimeout      = 300 * time.Second
	DefaultHTTPTimeout  = 60 * time.Second
	DefaultUserAgent    = "doctly-go/0.1"
)

// HTTPConfig holds shared HTTP settings.
type HTTPConfig struct {
	// Timeout bounds each individual HTTP request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"http_timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ClientConfig configures a doctly client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is sent as a bearer token on upload and status requests.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key" validate:"required"`

	// BaseURL is the service root, e.g. "https://api.doctly.ai".
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// PollInterval is the delay between status checks (default 5s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval" validate:"gte=0"`

	// ConversionTimeout is the wall-clock budget for the poll loop
	// (default 300s). It is checked once per poll, so the loop can run past
	// it by up to one interval plus one status request.
	ConversionTimeout time.Duration `json:"conversion_timeout" yaml:"conversion_timeout" mapstructure:"conversion_timeout" validate:"gte=0"`
}

// WithDefaults returns a copy of c with zero fields replaced by defaults.
func (c ClientConfig) WithDefaults() ClientConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.ConversionTimeout == 0 {
		c.ConversionTimeout = DefaultTimeout
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultHTTPTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// ConversionConfig holds settings for converting local files in bulk.
type ConversionConfig struct {
	// OutputDir receives one <name>.md per converted input.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"out_dir" validate:"required"`

	// Overwrite re-converts inputs whose output already exists.
	Overwrite bool `json:"overwrite" yaml:"overwrite" mapstructure:"overwrite"`

	// Frontmatter prepends a YAML header naming the source file.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter" mapstructure:"frontmatter"`
}
