package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"newsfeed/internal/preferences"
	"newsfeed/internal/validator"
)

func newPrefsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Read or change the feed preferences",
		Long: `Preferences choose how many items a query returns and which section it is
filtered to. Keys: items-per-page, topic-category.

Examples:
  newsfeed --prefs prefs.yaml prefs show
  newsfeed --prefs prefs.yaml prefs set items-per-page 20
  newsfeed --prefs prefs.yaml prefs set topic-category all`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective preferences",
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, key := range []string{preferences.KeyItemsPerPage, preferences.KeyTopicCategory} {
					value, err := a.prefs.Get(key)
					if err != nil {
						return err
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, value)
				}

				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one preference",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := a.prefs.Get(args[0])
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), value)

				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Validate and store one preference",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, value := args[0], args[1]

				q := a.prefs.Query()

				switch key {
				case preferences.KeyItemsPerPage:
					n, err := strconv.Atoi(value)
					if err != nil {
						return fmt.Errorf("%s must be an integer: %w", key, err)
					}

					q.PageSize = n
				case preferences.KeyTopicCategory:
					q.Topic = value
				}

				if err := validator.New().ValidateQuery(q); err != nil {
					return err
				}

				return a.prefs.Set(key, value)
			},
		},
	)

	return cmd
}
