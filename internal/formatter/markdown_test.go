package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"newsfeed/internal/models"
)

func mustArticle(t *testing.T, title, section, url string, published *time.Time, author *string) models.Article {
	t.Helper()

	a, err := models.NewArticle(title, section, url, published, author)
	if err != nil {
		t.Fatalf("NewArticle failed: %v", err)
	}

	return a
}

func TestFormatArticles_Table(t *testing.T) {
	published := time.Date(2023, 5, 1, 10, 15, 30, 0, time.UTC)
	author := "Jane Doe"

	articles := []models.Article{
		mustArticle(t, "Budget passes", "Politics", "https://x.test/a", &published, &author),
		mustArticle(t, "Rain", "UK news", "https://x.test/b", nil, nil),
	}

	got := FormatArticles("Politics", articles)

	expected := `# Politics

| Published        | Section  | Title                             | Author   |
| ---------------- | -------- | --------------------------------- | -------- |
| 2023-05-01 10:15 | Politics | [Budget passes](https://x.test/a) | Jane Doe |
|                  | UK news  | [Rain](https://x.test/b)          |          |
`

	if got != expected {
		t.Errorf("FormatArticles() mismatch.\nExpected:\n%s\nGot:\n%s", expected, got)
	}
}

func TestFormatArticles_Empty(t *testing.T) {
	got := FormatArticles("", nil)
	if got != "_No articles found._\n" {
		t.Errorf("Unexpected empty digest: %q", got)
	}
}

func TestFormatArticles_EscapesPipes(t *testing.T) {
	articles := []models.Article{
		mustArticle(t, "Left | Right", "World", "https://x.test/a", nil, nil),
	}

	got := FormatArticles("", articles)
	if !strings.Contains(got, `[Left \| Right]`) {
		t.Errorf("Expected escaped pipe, got:\n%s", got)
	}
}

func TestFormatArticles_WideCharactersAlign(t *testing.T) {
	articles := []models.Article{
		mustArticle(t, "首相が辞任", "World", "https://x.test/a", nil, nil),
		mustArticle(t, "PM resigns", "World", "https://x.test/b", nil, nil),
	}

	lines := strings.Split(strings.TrimSpace(FormatArticles("", articles)), "\n")

	width := runewidth.StringWidth(lines[0])
	for _, line := range lines[1:] {
		if w := runewidth.StringWidth(line); w != width {
			t.Errorf("Row display width %d != header width %d: %q", w, width, line)
		}
	}
}
