package presentation

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/feed"
	"newsfeed/internal/models"
)

func article(t *testing.T, title string, withAuthor bool) models.Article {
	t.Helper()

	published := time.Date(2023, 5, 1, 10, 15, 30, 0, time.UTC)

	var author *string
	if withAuthor {
		name := "Author of " + title
		author = &name
	}

	a, err := models.NewArticle(title, "Politics", "https://x.test/"+title, &published, author)
	require.NoError(t, err)

	return a
}

func snapshot(t *testing.T, gen uint64, titles ...string) feed.Snapshot {
	t.Helper()

	articles := make([]models.Article, 0, len(titles))
	for i, title := range titles {
		articles = append(articles, article(t, title, i%2 == 0))
	}

	return feed.Snapshot{Articles: articles, Generation: gen}
}

func TestFeedView_ReplaceDoesNotMerge(t *testing.T) {
	v := NewFeedView()

	require.True(t, v.Replace(snapshot(t, 1, "a", "b", "c")))
	require.True(t, v.Replace(snapshot(t, 2, "d")))

	rows := v.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "d", rows[0].Title)
	assert.Equal(t, "May 01, 2023,", rows[0].Date)
	assert.Equal(t, "10:15 AM", rows[0].Time)
}

func TestFeedView_IgnoresOlderSnapshot(t *testing.T) {
	v := NewFeedView()

	require.True(t, v.Replace(snapshot(t, 5, "new")))
	assert.False(t, v.Replace(snapshot(t, 4, "old")))

	rows := v.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "new", rows[0].Title)
}

func TestFeedView_EmptyMessages(t *testing.T) {
	v := NewFeedView()
	assert.Equal(t, MessageNoArticles, v.EmptyMessage())

	v.BeginLoading()
	assert.True(t, v.Loading())
	assert.Empty(t, v.EmptyMessage())

	v.Replace(feed.Snapshot{Generation: 1})
	assert.False(t, v.Loading())
	assert.Equal(t, MessageNoArticles, v.EmptyMessage())

	v.ShowOffline()
	assert.Equal(t, MessageOffline, v.EmptyMessage())
	assert.Zero(t, v.Len())
}

func TestFeedView_RowsAreCopies(t *testing.T) {
	v := NewFeedView()
	v.Replace(snapshot(t, 1, "a"))

	rows := v.Rows()
	rows[0].Title = "mutated"

	assert.Equal(t, "a", v.Rows()[0].Title)
}

func TestFeedView_AbsentFields(t *testing.T) {
	a, err := models.NewArticle("t", "World", "https://x.test/t", nil, nil)
	require.NoError(t, err)

	v := NewFeedView()
	v.Replace(feed.Snapshot{Articles: []models.Article{a}, Generation: 1})

	row := v.Rows()[0]
	assert.Equal(t, TemplatePlain, row.Template)
	assert.Empty(t, row.Author)
	assert.Empty(t, row.Date)
	assert.Empty(t, row.Time)
}

func TestRowPool_RecyclesByTemplate(t *testing.T) {
	created := 0
	pool := NewRowPool(
		func(tpl RowTemplate) *Row { created++; return &Row{Template: tpl} },
		func(r *Row) { *r = Row{Template: r.Template} },
	)

	r := pool.Get(TemplateByline)
	r.Title = "stale"
	pool.Put(TemplateByline, r)

	assert.Equal(t, 1, pool.Idle(TemplateByline))
	assert.Zero(t, pool.Idle(TemplatePlain))

	plain := pool.Get(TemplatePlain)
	assert.NotSame(t, r, plain)

	again := pool.Get(TemplateByline)
	assert.Same(t, r, again)
	assert.Empty(t, again.Title)
	assert.Equal(t, 2, created)
}

func TestFeedView_RecyclesRows(t *testing.T) {
	v := NewFeedView()
	v.Replace(snapshot(t, 1, "a", "b", "c", "d"))
	v.Replace(snapshot(t, 2))

	assert.Equal(t, 2, v.pool.Idle(TemplateByline))
	assert.Equal(t, 2, v.pool.Idle(TemplatePlain))
}

func TestRenderer_Table(t *testing.T) {
	v := NewFeedView()
	v.Replace(snapshot(t, 1, "first-story", "second-story"))

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, false, 40).Render(v))

	out := buf.String()
	assert.Contains(t, out, "first-story")
	assert.Contains(t, out, "second-story")
	assert.Contains(t, out, "Author of first-story")
}

func TestRenderer_TruncatesTitles(t *testing.T) {
	long := "a-very-long-headline-that-keeps-going-and-going"

	v := NewFeedView()
	v.Replace(snapshot(t, 1, long))

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, false, 20).Render(v))

	assert.NotContains(t, buf.String(), long)
	assert.Contains(t, buf.String(), "a-very-long-headl...")
}

func TestRenderer_EmptyStates(t *testing.T) {
	tests := []struct {
		name  string
		setup func(v *FeedView)
		want  string
	}{
		{"no articles", func(v *FeedView) { v.Replace(feed.Snapshot{Generation: 1}) }, MessageNoArticles},
		{"offline", func(v *FeedView) { v.ShowOffline() }, MessageOffline},
		{"loading", func(v *FeedView) { v.BeginLoading() }, "Loading..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFeedView()
			tt.setup(v)

			var buf bytes.Buffer
			require.NoError(t, NewRenderer(&buf, false, 40).Render(v))
			assert.Equal(t, tt.want+"\n", buf.String())
		})
	}
}

func TestRenderer_Links(t *testing.T) {
	v := NewFeedView()
	v.Replace(snapshot(t, 1, "a", "b"))

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, false, 40).RenderLinks(v))

	assert.Equal(t, fmt.Sprintf("%3d. %s\n%3d. %s\n", 1, "https://x.test/a", 2, "https://x.test/b"), buf.String())
}
