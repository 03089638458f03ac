package models

import "slices"

// NoTopicFilter is the topic value meaning "do not narrow by section".
const NoTopicFilter = "all"

// Page size bounds accepted by the feed query.
const (
	MinPageSize     = 1
	MaxPageSize     = 50
	DefaultPageSize = 15
)

// KnownSections lists the section identifiers accepted as a topic filter.
var KnownSections = []string{
	"books",
	"business",
	"commentisfree",
	"culture",
	"education",
	"environment",
	"film",
	"football",
	"lifeandstyle",
	"media",
	"money",
	"music",
	"politics",
	"science",
	"society",
	"sport",
	"technology",
	"travel",
	"uk-news",
	"us-news",
	"world",
}

// QueryConfig holds the parameters of one feed query.
type QueryConfig struct {
	Topic    string `json:"topic" validate:"required,topic"`
	PageSize int    `json:"page_size" validate:"min=1,max=50"`
}

// DefaultQueryConfig returns the unfiltered default query.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		Topic:    NoTopicFilter,
		PageSize: DefaultPageSize,
	}
}

// HasTopicFilter reports whether the query narrows by section.
func (q QueryConfig) HasTopicFilter() bool {
	return q.Topic != "" && q.Topic != NoTopicFilter
}

// IsKnownTopic reports whether topic is the sentinel or a known section.
func IsKnownTopic(topic string) bool {
	return topic == NoTopicFilter || slices.Contains(KnownSections, topic)
}
