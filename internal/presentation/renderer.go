package presentation

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"newsfeed/pkg/utils"
)

// Renderer draws a FeedView as a terminal table.
type Renderer struct {
	out       io.Writer
	strings   *utils.StringHelper
	maxTitle  int
	useColors bool
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, useColors bool, maxTitleWidth int) *Renderer {
	return &Renderer{
		out:       out,
		strings:   utils.NewStringHelper(),
		maxTitle:  maxTitleWidth,
		useColors: useColors,
	}
}

// Render writes the rows of v, or its empty state message.
func (r *Renderer) Render(v *FeedView) error {
	rows := v.Rows()
	if len(rows) == 0 {
		msg := v.EmptyMessage()
		if msg == "" {
			msg = "Loading..."
		}

		return r.line(color.FgYellow, msg)
	}

	table := tablewriter.NewTable(r.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	table.Header([]string{"Date", "Time", "Section", "Title", "Author"})

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{
			row.Date,
			row.Time,
			row.Section,
			r.bold(r.strings.TruncateString(r.strings.NormalizeWhitespace(row.Title), r.maxTitle)),
			row.Author,
		})
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to build feed table: %w", err)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render feed table: %w", err)
	}

	return nil
}

// RenderLinks writes a numbered list of article URLs.
func (r *Renderer) RenderLinks(v *FeedView) error {
	var b strings.Builder

	for i, row := range v.Rows() {
		fmt.Fprintf(&b, "%3d. %s\n", i+1, row.URL)
	}

	_, err := io.WriteString(r.out, b.String())

	return err
}

func (r *Renderer) bold(text string) string {
	if r.useColors {
		return color.New(color.Bold).Sprint(text)
	}

	return text
}

func (r *Renderer) line(attr color.Attribute, msg string) error {
	if r.useColors {
		_, err := color.New(attr).Fprintln(r.out, msg)
		return err
	}

	_, err := fmt.Fprintln(r.out, msg)

	return err
}
