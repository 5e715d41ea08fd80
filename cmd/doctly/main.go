// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doctly CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/doctly/internal/secrets"
	"github.com/pdiddy/doctly/pkg/doctly"
	"github.com/pdiddy/doctly/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir is where API keys are looked up when not given by flag or env.
const secretsDir = ".secrets/"

var (
	// loadedSecrets holds keys loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// logger is configured from --log-level and --log-format before any
	// subcommand runs.
	logger = logrus.New()
)

// rootCmd is the base command for the doctly CLI.
var rootCmd = &cobra.Command{
	Use:   "doctly",
	Short: "Convert documents to Markdown with the Doctly API",
	Long: `doctly uploads documents to the Doctly conversion service, waits for
processing to finish, and saves the resulting Markdown.

The API key is read from --api-key, DOCTLY_API_KEY, the api_key setting in
doctly.yaml, or .secrets/doctly-api-key, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := configureLogger(viper.GetString("log_level"), viper.GetString("log_format")); err != nil {
			return err
		}

		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./doctly.yaml or ~/.config/doctly/doctly.yaml)")
	pf.String("api-key", "", "Doctly API key")
	pf.String("base-url", types.DefaultBaseURL, "Doctly API base URL")
	pf.Duration("http-timeout", types.DefaultHTTPTimeout, "timeout for each HTTP request")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")

	mustBind("api_key", pf.Lookup("api-key"))
	mustBind("base_url", pf.Lookup("base-url"))
	mustBind("http_timeout", pf.Lookup("http-timeout"))
	mustBind("log_level", pf.Lookup("log-level"))
	mustBind("log_format", pf.Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doctly")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doctly"))
		}
	}

	viper.SetEnvPrefix("DOCTLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// clientConfig assembles the client configuration from flags, environment,
// config file, and secrets.
func clientConfig() (types.ClientConfig, error) {
	var cfg types.ClientConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.APIKey = loadedSecrets.APIKey(cfg.APIKey)
	cfg.UserAgent = "doctly-go/" + version
	return cfg, nil
}

// newClient builds a doctly client from the current configuration.
func newClient() (*doctly.Client, error) {
	cfg, err := clientConfig()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key: set --api-key, DOCTLY_API_KEY, or %s%s", secretsDir, secrets.APIKeyFile)
	}
	return doctly.New(cfg, doctly.WithLogger(logger))
}

// mustBind binds a flag to a viper key. It only fails on a nil flag, which
// is a programming error.
func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
