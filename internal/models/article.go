// Package models defines the data records produced by the feed pipeline.
package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Article construction errors.
var (
	ErrMissingTitle = errors.New("article title is required")
	ErrMissingURL   = errors.New("article url is required")
)

// Article represents one news story. It is immutable once constructed.
type Article struct {
	publishedAt *time.Time
	author      *string
	title       string
	section     string
	url         string
}

// NewArticle builds an Article. A nil publishedAt or author records the field as absent.
func NewArticle(title, section, url string, publishedAt *time.Time, author *string) (Article, error) {
	if title == "" {
		return Article{}, ErrMissingTitle
	}

	if url == "" {
		return Article{}, ErrMissingURL
	}

	a := Article{
		title:   title,
		section: section,
		url:     url,
	}

	if publishedAt != nil {
		t := publishedAt.UTC()
		a.publishedAt = &t
	}

	if author != nil {
		s := *author
		a.author = &s
	}

	return a, nil
}

// Title returns the article headline.
func (a Article) Title() string {
	return a.title
}

// Section returns the section name the article was published under.
func (a Article) Section() string {
	return a.section
}

// URL returns the absolute article URL.
func (a Article) URL() string {
	return a.url
}

// PublishedAt returns the publication instant and whether it is present.
func (a Article) PublishedAt() (time.Time, bool) {
	if a.publishedAt == nil {
		return time.Time{}, false
	}

	return *a.publishedAt, true
}

// Author returns the contributor name and whether it is present.
func (a Article) Author() (string, bool) {
	if a.author == nil {
		return "", false
	}

	return *a.author, true
}

// Equal reports whether two articles carry the same values.
func (a Article) Equal(b Article) bool {
	if a.title != b.title || a.section != b.section || a.url != b.url {
		return false
	}

	at, aok := a.PublishedAt()
	bt, bok := b.PublishedAt()

	if aok != bok || !at.Equal(bt) {
		return false
	}

	aa, aok := a.Author()
	ba, bok := b.Author()

	return aok == bok && aa == ba
}

type articleJSON struct {
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Author      *string    `json:"author,omitempty"`
	Title       string     `json:"title"`
	Section     string     `json:"section"`
	URL         string     `json:"url"`
}

// MarshalJSON encodes the article, omitting absent fields.
func (a Article) MarshalJSON() ([]byte, error) {
	return json.Marshal(articleJSON{
		PublishedAt: a.publishedAt,
		Author:      a.author,
		Title:       a.title,
		Section:     a.section,
		URL:         a.url,
	})
}
