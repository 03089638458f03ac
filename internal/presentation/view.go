package presentation

import (
	"sync"
	"time"

	"newsfeed/internal/feed"
	"newsfeed/internal/models"
)

// Empty state messages.
const (
	MessageNoArticles = "No articles found."
	MessageOffline    = "No internet connection."
)

const (
	dateLayout = "Jan 02, 2006"
	timeLayout = "3:04 PM"
)

// Row is the display form of one article.
type Row struct {
	Title    string
	Section  string
	Date     string
	Time     string
	Author   string
	URL      string
	Template RowTemplate
}

// FeedView is the presentation-owned view state. Each snapshot replaces the
// rows wholesale; nothing is merged.
type FeedView struct {
	pool       *RowPool[Row]
	rows       []*Row
	generation uint64
	mu         sync.RWMutex
	loading    bool
	offline    bool
}

// NewFeedView creates an empty view.
func NewFeedView() *FeedView {
	return &FeedView{
		pool: NewRowPool(
			func(tpl RowTemplate) *Row { return &Row{Template: tpl} },
			func(r *Row) { *r = Row{Template: r.Template} },
		),
	}
}

// BeginLoading clears the rows while a new query runs.
func (v *FeedView) BeginLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.recycle()
	v.loading = true
	v.offline = false
}

// ShowOffline clears the rows and switches the empty state to the offline message.
func (v *FeedView) ShowOffline() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.recycle()
	v.loading = false
	v.offline = true
}

// Replace swaps in the snapshot's articles. Snapshots older than the one
// already shown are ignored; the return value reports whether it was applied.
func (v *FeedView) Replace(snap feed.Snapshot) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if snap.Generation != 0 && snap.Generation < v.generation {
		return false
	}

	v.recycle()

	v.rows = make([]*Row, 0, len(snap.Articles))
	for _, a := range snap.Articles {
		v.rows = append(v.rows, v.fill(a))
	}

	v.generation = snap.Generation
	v.loading = false
	v.offline = false

	return true
}

func (v *FeedView) recycle() {
	for _, r := range v.rows {
		v.pool.Put(r.Template, r)
	}

	v.rows = nil
}

func (v *FeedView) fill(a models.Article) *Row {
	author, hasAuthor := a.Author()

	tpl := TemplatePlain
	if hasAuthor {
		tpl = TemplateByline
	}

	r := v.pool.Get(tpl)
	r.Title = a.Title()
	r.Section = a.Section()
	r.URL = a.URL()
	r.Author = author

	if ts, ok := a.PublishedAt(); ok {
		r.Date, r.Time = FormatDate(ts), FormatTime(ts)
	}

	return r
}

// Rows returns a copy of the displayed rows.
func (v *FeedView) Rows() []Row {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Row, len(v.rows))
	for i, r := range v.rows {
		out[i] = *r
	}

	return out
}

// Len returns the number of displayed rows.
func (v *FeedView) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return len(v.rows)
}

// Loading reports whether a query is in flight.
func (v *FeedView) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.loading
}

// EmptyMessage returns the text to show when there are no rows, or "" while loading.
func (v *FeedView) EmptyMessage() string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	switch {
	case v.offline:
		return MessageOffline
	case v.loading:
		return ""
	default:
		return MessageNoArticles
	}
}

// FormatDate renders the date part of a publication time, e.g. "May 01, 2023,".
func FormatDate(ts time.Time) string {
	return ts.Format(dateLayout) + ","
}

// FormatTime renders the time part of a publication time, e.g. "10:15 AM".
func FormatTime(ts time.Time) string {
	return ts.Format(timeLayout)
}
