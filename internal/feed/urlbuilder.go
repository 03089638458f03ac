package feed

import (
	"fmt"
	"net/url"
	"strconv"

	"newsfeed/internal/models"
)

// Query parameter names understood by the search endpoint.
const (
	ParamOrderBy       = "order-by"
	ParamShowTags      = "show-tags"
	ParamFormat        = "format"
	ParamShowReference = "show-reference"
	ParamQuery         = "q"
	ParamAPIKey        = "api-key"
	ParamPageSize      = "page-size"
	ParamSection       = "section"
)

// URLBuilder builds search request URLs from query configurations.
type URLBuilder struct {
	base   *url.URL
	apiKey string
	query  string
}

// NewURLBuilder creates a builder for the given endpoint, API key and topic seed.
func NewURLBuilder(baseURL, apiKey, query string) (*URLBuilder, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}

	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q is not absolute", ErrMalformedRequest, baseURL)
	}

	return &URLBuilder{
		base:   u,
		apiKey: apiKey,
		query:  query,
	}, nil
}

// Build returns the request URL for q. The section parameter is only set
// when q carries a topic filter.
func (b *URLBuilder) Build(q models.QueryConfig) string {
	u := *b.base
	params := u.Query()

	params.Set(ParamFormat, "json")
	params.Set(ParamOrderBy, "newest")
	params.Set(ParamShowReference, "author")
	params.Set(ParamShowTags, "contributor")
	params.Set(ParamAPIKey, b.apiKey)
	params.Set(ParamPageSize, strconv.Itoa(q.PageSize))

	if b.query != "" {
		params.Set(ParamQuery, b.query)
	}

	if q.HasTopicFilter() {
		params.Set(ParamSection, q.Topic)
	} else {
		params.Del(ParamSection)
	}

	u.RawQuery = params.Encode()

	return u.String()
}
