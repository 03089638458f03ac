package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"newsfeed/internal/config"
)

const defaultConfigPath = "newsfeed.yaml"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(a))

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		// Nothing to load yet.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			if err := config.Default().SaveConfig(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "api.base_url:                   %s\n", a.cfg.API.BaseURL)
			fmt.Fprintf(out, "api.query:                      %s\n", a.cfg.API.Query)
			fmt.Fprintf(out, "logging.level:                  %s\n", a.cfg.Logging.Level)
			fmt.Fprintf(out, "logging.format:                 %s\n", a.cfg.Logging.Format)
			fmt.Fprintf(out, "server.address:                 %s\n", a.cfg.Server.Address)
			fmt.Fprintf(out, "presentation.format:            %s\n", a.cfg.Presentation.Format)
			fmt.Fprintf(out, "presentation.max_title_width:   %d\n", a.cfg.Presentation.MaxTitleWidth)
			fmt.Fprintf(out, "presentation.colors:            %v\n", a.cfg.Presentation.Colors)
			fmt.Fprintf(out, "features.legacy_author_guard:   %v\n", a.cfg.Features.LegacyAuthorGuard)

			return nil
		},
	}
}
