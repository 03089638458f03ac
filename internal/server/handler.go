package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/singleflight"

	"newsfeed/internal/logger"
	"newsfeed/internal/models"
	"newsfeed/internal/validator"
)

const (
	QueryPageSize = "page-size"
	QuerySection  = "section"
)

// FeedQuerier runs feed queries for the handler.
type FeedQuerier interface {
	Query(ctx context.Context, q models.QueryConfig) []models.Article
	Validate(q models.QueryConfig) error
}

// ArticlesResponse is the body of GET /articles.
type ArticlesResponse struct {
	Articles []models.Article `json:"articles"`
	Count    int              `json:"count"`
}

// ErrorResponse is the body of a rejected request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ArticlesHandler serves the feed. Identical concurrent queries share one
// upstream request.
type ArticlesHandler struct {
	feed     FeedQuerier
	defaults func() models.QueryConfig
	group    singleflight.Group
	log      *logger.Logger
}

// NewArticlesHandler creates a handler. defaults is consulted on every
// request for the values the query string leaves out.
func NewArticlesHandler(feed FeedQuerier, defaults func() models.QueryConfig, log *logger.Logger) *ArticlesHandler {
	return &ArticlesHandler{
		feed:     feed,
		defaults: defaults,
		log:      log.With("component", "server"),
	}
}

// Handle processes GET /articles?page-size=N&section=S.
func (h *ArticlesHandler) Handle(c echo.Context) error {
	q := h.defaults()

	if raw := strings.TrimSpace(c.QueryParam(QueryPageSize)); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "page-size must be an integer"})
		}

		q.PageSize = pageSize
	}

	if section := strings.TrimSpace(c.QueryParam(QuerySection)); section != "" {
		q.Topic = section
	}

	if err := h.feed.Validate(q); err != nil {
		resp := ErrorResponse{Error: "invalid query configuration"}

		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			resp.Fields = verr.Errors
		}

		return c.JSON(http.StatusBadRequest, resp)
	}

	key := q.Topic + "|" + strconv.Itoa(q.PageSize)
	ctx := context.WithoutCancel(c.Request().Context())

	v, _, shared := h.group.Do(key, func() (any, error) {
		return h.feed.Query(ctx, q), nil
	})

	articles := v.([]models.Article)

	if shared {
		h.log.Debug("shared in-flight query", "topic", q.Topic, "page_size", q.PageSize)
	}

	return c.JSON(http.StatusOK, ArticlesResponse{Articles: articles, Count: len(articles)})
}

// HealthHandler reports liveness.
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
