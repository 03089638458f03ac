package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"newsfeed/internal/feed"
	"newsfeed/internal/presentation"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the feed and re-query whenever preferences change",
		Long: `Watch prints the feed, then watches the preferences file. Each change
cancels the query in flight and starts a new one; only the newest result
is printed.

Example:
  newsfeed watch --prefs prefs.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.watch(ctx, cmd)
		},
	}
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command) error {
	svc, err := a.service()
	if err != nil {
		return err
	}

	changes, err := a.prefs.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching preferences: %w", err)
	}

	loader := feed.NewLoader(svc, a.log)
	defer loader.Close()

	out := cmd.OutOrStdout()
	view := presentation.NewFeedView()
	renderer := a.renderer(out)

	start := func() error {
		q := a.prefs.Query()

		fmt.Fprintf(out, "\n%s (%d items) at %s\n", heading(q), q.PageSize, time.Now().Format(time.Kitchen))

		if !a.checker.Online(ctx) {
			loader.Cancel()
			view.ShowOffline()
			return renderer.Render(view)
		}

		view.BeginLoading()
		gen := loader.Restart(ctx, q)
		a.log.Debug("load started", "generation", gen)

		return nil
	}

	if err := start(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}

			if err := start(); err != nil {
				return err
			}
		case snap, ok := <-loader.Snapshots():
			if !ok {
				return nil
			}

			if view.Replace(snap) {
				if err := renderer.Render(view); err != nil {
					return err
				}
			}
		}
	}
}
