package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"newsfeed/internal/config"
	"newsfeed/internal/connectivity"
	"newsfeed/internal/feed"
	"newsfeed/internal/logger"
	"newsfeed/internal/normalizer"
	"newsfeed/internal/preferences"
)

// app carries the state shared by every subcommand once the root has
// loaded configuration.
type app struct {
	cfgFile   string
	prefsFile string
	envFile   string
	verbose   bool
	noCheck   bool

	cfg     *config.Config
	log     *logger.Logger
	prefs   *preferences.Store
	checker connectivity.Checker
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "newsfeed",
		Short: "Read the latest news from the Guardian content API",
		Long: `newsfeed queries a news search API and prints the newest articles.

Example usage:
  newsfeed fetch                          # Print the feed using stored preferences
  newsfeed fetch --section sport -n 5     # Five newest sport articles
  newsfeed watch --prefs prefs.yaml       # Re-query whenever preferences change
  newsfeed serve --addr :8080             # Serve the feed over HTTP
  newsfeed config init newsfeed.yaml      # Write a default configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: built-in defaults)")
	root.PersistentFlags().StringVar(&a.prefsFile, "prefs", "", "preferences file holding items-per-page and topic-category")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before configuration")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&a.noCheck, "no-check", false, "skip the connectivity check before querying")

	root.AddCommand(
		newFetchCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newPrefsCmd(a),
		newDigestCmd(),
		newVersionCmd(),
	)

	return root
}

// setup loads .env, the config file and preferences, and sets up logging.
func (a *app) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", a.envFile, err)
		}
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	a.cfg = cfg

	a.log = logger.NewLoggerWithOptions(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	if a.verbose {
		a.log.SetLevel("debug")
	}

	a.prefs, err = preferences.New(a.prefsFile, a.log)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}

	if a.noCheck {
		a.checker = connectivity.Static(true)
	} else {
		checker, err := connectivity.NewDialChecker(cfg.API.BaseURL)
		if err != nil {
			return fmt.Errorf("connectivity checker: %w", err)
		}

		a.checker = checker
	}

	a.log.Debug("configuration loaded", "config", cfg.String(), "prefs", a.prefs.Path())

	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.cfgFile != "" {
		cfg, err := config.LoadConfig(a.cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}

		return cfg, nil
	}

	cfg := config.Default()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// service wires fetcher, parser and URL builder into a query service.
func (a *app) service() (*feed.Service, error) {
	guard := normalizer.GuardTagTitle
	if a.cfg.Features.LegacyAuthorGuard {
		guard = normalizer.GuardArticleTitle
	}

	urls, err := feed.NewURLBuilder(a.cfg.API.BaseURL, a.cfg.API.APIKey, a.cfg.API.Query)
	if err != nil {
		return nil, fmt.Errorf("building request url: %w", err)
	}

	return feed.NewService(feed.NewFetcher(a.log), feed.NewParser(guard, a.log), urls, a.log), nil
}
