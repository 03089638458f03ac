package feed

import (
	"encoding/json"
	"errors"
	"fmt"

	"newsfeed/internal/logger"
	"newsfeed/internal/metrics"
	"newsfeed/internal/models"
	"newsfeed/internal/normalizer"
)

// Document level parse errors.
var (
	ErrMalformedDocument = errors.New("malformed feed document")
	ErrMissingResults    = errors.New("response.results not found")
)

// Parser converts a search response body into Articles.
type Parser struct {
	processor *normalizer.Processor
	log       *logger.Logger
}

// NewParser creates a parser using the given author guard.
func NewParser(guard normalizer.AuthorGuard, log *logger.Logger) *Parser {
	return &Parser{
		processor: normalizer.NewProcessor(guard),
		log:       log.With("component", "parser"),
	}
}

// Parse never fails: document level problems are logged and yield an empty
// slice, element level problems drop only that element.
func (p *Parser) Parse(raw string) []models.Article {
	articles, err := p.ParseDocument(raw)
	if err != nil {
		p.log.Error("problem parsing the feed document",
			"error_kind", "MalformationError",
			"articles_kept", len(articles),
			"error", err)
	}

	return articles
}

// ParseDocument is Parse with the document level error surfaced. The
// returned slice is never nil and holds every article accumulated before
// the error, in upstream order.
func (p *Parser) ParseDocument(raw string) (articles []models.Article, err error) {
	articles = []models.Article{}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedDocument, r)
		}
	}()

	results, err := resultsArray(raw)
	if err != nil {
		return articles, err
	}

	for i, elem := range results {
		article, ok := p.element(i, elem)
		if ok {
			articles = append(articles, article)
		}
	}

	return articles, nil
}

func (p *Parser) element(index int, raw json.RawMessage) (models.Article, bool) {
	rec, err := normalizer.NewRecord(index, raw)
	if err != nil {
		p.skip(index, "not_object", err)
		return models.Article{}, false
	}

	out, err := p.processor.Process(rec)
	if err != nil {
		p.skip(index, "invalid", err)
		return models.Article{}, false
	}

	for _, w := range out.Warnings {
		p.log.Warn("partial result element", "error_kind", "MalformationError", "index", index, "error", w)
	}

	return out.Article, true
}

func (p *Parser) skip(index int, reason string, err error) {
	p.log.Warn("skipping result element",
		"error_kind", "MalformationError",
		"index", index,
		"reason", reason,
		"error", err)
	metrics.RecordSkipped(reason)
}

// resultsArray navigates to response.results.
func resultsArray(raw string) ([]json.RawMessage, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	if root == nil {
		return nil, fmt.Errorf("%w: top level is null", ErrMalformedDocument)
	}

	respRaw, ok := root["response"]
	if !ok {
		return nil, fmt.Errorf("%w: response", ErrMissingResults)
	}

	var response map[string]json.RawMessage
	if err := json.Unmarshal(respRaw, &response); err != nil || response == nil {
		return nil, fmt.Errorf("%w: response is not an object", ErrMalformedDocument)
	}

	resultsRaw, ok := response["results"]
	if !ok {
		return nil, ErrMissingResults
	}

	var results []json.RawMessage
	if err := json.Unmarshal(resultsRaw, &results); err != nil {
		return nil, fmt.Errorf("%w: results is not an array: %w", ErrMalformedDocument, err)
	}

	return results, nil
}
