// Package formatter renders a feed as a markdown digest.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"newsfeed/internal/models"
	"newsfeed/pkg/utils"
)

var (
	digestHeader = []string{"Published", "Section", "Title", "Author"}
	text         = utils.NewStringHelper()
)

// FormatArticles renders articles as a markdown document with an aligned table.
// An empty feed renders as a single italic note instead of an empty table.
func FormatArticles(heading string, articles []models.Article) string {
	var sb strings.Builder

	if heading != "" {
		sb.WriteString("# ")
		sb.WriteString(heading)
		sb.WriteString("\n\n")
	}

	if len(articles) == 0 {
		sb.WriteString("_No articles found._\n")
		return sb.String()
	}

	table := make([][]string, 0, len(articles)+1)
	table = append(table, digestHeader)

	for _, a := range articles {
		published := ""
		if ts, ok := a.PublishedAt(); ok {
			published = ts.Format("2006-01-02 15:04")
		}

		author, _ := a.Author()

		table = append(table, []string{
			published,
			escapeCell(a.Section()),
			"[" + escapeCell(a.Title()) + "](" + a.URL() + ")",
			escapeCell(author),
		})
	}

	for _, line := range alignTable(table) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

// escapeCell keeps cell text from breaking the table structure.
func escapeCell(s string) string {
	return strings.ReplaceAll(text.NormalizeWhitespace(s), "|", `\|`)
}

// alignTable pads every cell to its column's display width and inserts the
// separator row after the header. table[0] is the header.
func alignTable(table [][]string) []string {
	colCount := 0
	for _, row := range table {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	for _, row := range table {
		for i := 0; i < len(row); i++ {
			if width := runewidth.StringWidth(row[i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// "---" is the narrowest valid separator
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	result := make([]string, 0, len(table)+1)

	for i, row := range table {
		result = append(result, renderRow(row, colWidths))

		if i == 0 {
			sep := make([]string, colCount)
			for j := range sep {
				sep[j] = strings.Repeat("-", colWidths[j])
			}

			result = append(result, renderRow(sep, colWidths))
		}
	}

	return result
}

func renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
