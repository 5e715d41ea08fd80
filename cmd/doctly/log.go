// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// configureLogger applies level and format to the shared logger. Logs always
// go to stderr so stdout stays clean for --stdout output.
func configureLogger(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(lvl)
	logger.SetOutput(os.Stderr)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{})
	default:
		return fmt.Errorf("invalid --log-format %q: want text or json", format)
	}
	return nil
}
