package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"newsfeed/internal/feed"
	"newsfeed/internal/formatter"
	"newsfeed/internal/models"
	"newsfeed/internal/presentation"
	"newsfeed/internal/server"
	"newsfeed/pkg/metadata"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		pageSize int
		section  string
		format   string
		output   string
		links    bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the feed once and print it",
		Long: `Fetch runs one query using the stored preferences and prints the result.

Flags override the stored preferences for this run only.

Examples:
  newsfeed fetch
  newsfeed fetch --page-size 5 --section politics
  newsfeed fetch --format markdown > digest.md
  newsfeed fetch --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := a.prefs.Query()

			if cmd.Flags().Changed("page-size") {
				q.PageSize = pageSize
			}

			if cmd.Flags().Changed("section") {
				q.Topic = section
			}

			if format == "" {
				format = a.cfg.Presentation.Format
			}

			svc, err := a.service()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			view := presentation.NewFeedView()

			var articles []models.Article

			if a.checker.Online(ctx) {
				view.BeginLoading()
				articles = svc.Query(ctx, q)
				view.Replace(feed.Snapshot{Articles: articles, Config: q, Generation: 1})
			} else {
				a.log.Warn("api host unreachable, skipping query")
				view.ShowOffline()
			}

			if output != "" {
				return a.writeDigest(cmd, output, format, view, q, articles)
			}

			out := cmd.OutOrStdout()

			if links {
				return a.renderer(out).RenderLinks(view)
			}

			return a.render(out, format, view, q, articles)
		},
	}

	cmd.Flags().IntVarP(&pageSize, "page-size", "n", models.DefaultPageSize, "number of articles to request")
	cmd.Flags().StringVarP(&section, "section", "s", models.NoTopicFilter, "section to filter by")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: table, markdown or json (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout; markdown output is stamped and only rewritten when the feed changed")
	cmd.Flags().BoolVar(&links, "links", false, "print article URLs only")

	return cmd
}

func (a *app) renderer(out io.Writer) *presentation.Renderer {
	return presentation.NewRenderer(out, a.cfg.Presentation.Colors, a.cfg.Presentation.MaxTitleWidth)
}

// render writes the feed in the requested format.
func (a *app) render(out io.Writer, format string, view *presentation.FeedView, q models.QueryConfig, articles []models.Article) error {
	switch format {
	case "table":
		return a.renderer(out).Render(view)
	case "markdown":
		if msg := view.EmptyMessage(); msg == presentation.MessageOffline {
			_, err := fmt.Fprintln(out, msg)
			return err
		}

		_, err := io.WriteString(out, formatter.FormatArticles(heading(q), articles))

		return err
	case "json":
		if articles == nil {
			articles = []models.Article{}
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(server.ArticlesResponse{Articles: articles, Count: len(articles)})
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func heading(q models.QueryConfig) string {
	if !q.HasTopicFilter() {
		return "Latest news"
	}

	return "Latest news: " + q.Topic
}

// writeDigest renders to path. Markdown gets a metadata block, and an
// existing file with the same feed content is left untouched.
func (a *app) writeDigest(cmd *cobra.Command, path, format string, view *presentation.FeedView, q models.QueryConfig, articles []models.Article) error {
	var buf bytes.Buffer

	if err := a.render(&buf, format, view, q, articles); err != nil {
		return err
	}

	content := buf.String()

	if format == "markdown" {
		content = metadata.Stamp(content, metadata.Metadata{
			Query: fmt.Sprintf("topic=%s page_size=%d", q.Topic, q.PageSize),
			Count: len(articles),
		})

		if existing, err := os.ReadFile(path); err == nil && metadata.SameBody(string(existing), content) {
			a.log.Info("digest unchanged, not rewriting", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Unchanged %s\n", path)

			return nil
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d articles)\n", path, len(articles))

	return nil
}
