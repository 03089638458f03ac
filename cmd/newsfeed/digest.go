package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"newsfeed/pkg/metadata"
)

func newDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Work with markdown digests written by fetch --output",
		// Digests are plain files; no configuration is needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <file>",
		Short: "Check that a digest has not been edited since it was written",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			meta, err := metadata.Verify(string(content))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d articles, %s, generated %s)\n",
				args[0], meta.Count, meta.Query, meta.Generated.Format("2006-01-02 15:04 MST"))

			return nil
		},
	})

	return cmd
}
