// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"time"

	"github.com/pdiddy/doctly/pkg/doctly"
)

// Doctly adapts a doctly client to the Converter interface. Zero
// PollInterval or Timeout fall back to the client's configuration.
type Doctly struct {
	Client       *doctly.Client
	PollInterval time.Duration
	Timeout      time.Duration
}

// Convert uploads path and returns the converted Markdown.
func (d *Doctly) Convert(ctx context.Context, path string) (string, error) {
	var opts []doctly.Option
	if d.PollInterval > 0 {
		opts = append(opts, doctly.WithPollInterval(d.PollInterval))
	}
	if d.Timeout > 0 {
		opts = append(opts, doctly.WithTimeout(d.Timeout))
	}
	return d.Client.ToMarkdown(ctx, path, opts...)
}
