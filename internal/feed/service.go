package feed

import (
	"context"

	"github.com/google/uuid"

	"newsfeed/internal/logger"
	"newsfeed/internal/metrics"
	"newsfeed/internal/models"
	"newsfeed/internal/validator"
)

// RawFetcher retrieves the raw body of a request URL.
type RawFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Service composes URL construction, fetching and parsing into one query.
type Service struct {
	fetcher   RawFetcher
	parser    *Parser
	urls      *URLBuilder
	validator *validator.Validator
	log       *logger.Logger
}

// NewService creates a query service with injected dependencies.
func NewService(fetcher RawFetcher, parser *Parser, urls *URLBuilder, log *logger.Logger) *Service {
	return &Service{
		fetcher:   fetcher,
		parser:    parser,
		urls:      urls,
		validator: validator.New(),
		log:       log.With("component", "query"),
	}
}

// BuildURL returns the request URL for q.
func (s *Service) BuildURL(q models.QueryConfig) string {
	return s.urls.Build(q)
}

// Query returns the feed for q, newest first. It never fails: an invalid
// configuration, a network failure or an unparseable body all yield an
// empty slice, with the cause logged by the component that saw it.
func (s *Service) Query(ctx context.Context, q models.QueryConfig) []models.Article {
	log := s.log.With("query_id", uuid.NewString(), "page_size", q.PageSize, "topic", q.Topic)

	if err := s.validator.ValidateQuery(q); err != nil {
		log.Error("rejecting query configuration", "error", err)
		metrics.RecordQuery(0)

		return []models.Article{}
	}

	raw, err := s.fetcher.Fetch(ctx, s.urls.Build(q))
	if err != nil {
		log.Debug("fetch failed, returning empty feed")
		metrics.RecordQuery(0)

		return []models.Article{}
	}

	articles := s.parser.Parse(raw)

	log.Info("query completed", "articles", len(articles))
	metrics.RecordQuery(len(articles))

	return articles
}

// Validate checks q without running it.
func (s *Service) Validate(q models.QueryConfig) error {
	return s.validator.ValidateQuery(q)
}
