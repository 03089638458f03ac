package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/logger"
	"newsfeed/internal/models"
)

// MockFetcher is a mock implementation of RawFetcher.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	args := m.Called(ctx, rawURL)
	return args.String(0), args.Error(1)
}

func newTestService(t *testing.T, fetcher RawFetcher, baseURL string) *Service {
	t.Helper()

	urls, err := NewURLBuilder(baseURL, "test-key", "politics")
	require.NoError(t, err)

	return NewService(fetcher, newTestParser(), urls, logger.Discard())
}

func TestService_Query_ParsesFetchedBody(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(raw string) bool {
		u, err := url.Parse(raw)
		return err == nil && u.Query().Get(ParamSection) == "technology" && u.Query().Get(ParamPageSize) == "2"
	})).Return(body(element(1), element(2)), nil).Once()

	svc := newTestService(t, fetcher, "https://content.guardianapis.com/search")

	articles := svc.Query(context.Background(), models.QueryConfig{Topic: "technology", PageSize: 2})

	require.Len(t, articles, 2)
	assert.Equal(t, "Story 1", articles[0].Title())
	fetcher.AssertExpectations(t)
}

func TestService_Query_FetchFailureYieldsEmpty(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return("", ErrNetwork).Once()

	svc := newTestService(t, fetcher, "https://content.guardianapis.com/search")

	articles := svc.Query(context.Background(), models.DefaultQueryConfig())

	assert.NotNil(t, articles)
	assert.Empty(t, articles)
	fetcher.AssertExpectations(t)
}

func TestService_Query_InvalidConfigSkipsFetch(t *testing.T) {
	fetcher := new(MockFetcher)

	svc := newTestService(t, fetcher, "https://content.guardianapis.com/search")

	for _, q := range []models.QueryConfig{
		{Topic: models.NoTopicFilter, PageSize: 0},
		{Topic: models.NoTopicFilter, PageSize: 500},
		{Topic: "astrology", PageSize: 10},
	} {
		assert.Empty(t, svc.Query(context.Background(), q))
		assert.Error(t, svc.Validate(q))
	}

	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestService_Query_MalformedBodyYieldsEmpty(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return("not json", nil).Once()

	svc := newTestService(t, fetcher, "https://content.guardianapis.com/search")

	assert.Empty(t, svc.Query(context.Background(), models.DefaultQueryConfig()))
}

func TestService_BuildURL_Section(t *testing.T) {
	svc := newTestService(t, new(MockFetcher), "https://content.guardianapis.com/search")

	unfiltered, err := url.Parse(svc.BuildURL(models.QueryConfig{Topic: models.NoTopicFilter, PageSize: 10}))
	require.NoError(t, err)
	assert.NotContains(t, unfiltered.Query(), ParamSection)

	filtered, err := url.Parse(svc.BuildURL(models.QueryConfig{Topic: "technology", PageSize: 10}))
	require.NoError(t, err)
	assert.Equal(t, "technology", filtered.Query().Get(ParamSection))
}

func TestService_EndToEnd(t *testing.T) {
	var gotQuery url.Values

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body(element(1), element(2), element(3))))
	}))
	defer srv.Close()

	svc := newTestService(t, NewFetcher(logger.Discard()), srv.URL+"/search")

	articles := svc.Query(context.Background(), models.QueryConfig{Topic: models.NoTopicFilter, PageSize: 3})

	require.Len(t, articles, 3)
	assert.Equal(t, "3", gotQuery.Get(ParamPageSize))
	assert.Equal(t, "test-key", gotQuery.Get(ParamAPIKey))
	assert.Empty(t, gotQuery.Get(ParamSection))
}

func TestService_EndToEnd_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	svc := newTestService(t, NewFetcher(logger.Discard()), srv.URL+"/search")

	articles := svc.Query(context.Background(), models.DefaultQueryConfig())
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestService_NeverPanicsOnFetcherError(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return("", errors.New("boom"))

	svc := newTestService(t, fetcher, "https://content.guardianapis.com/search")

	assert.NotPanics(t, func() {
		svc.Query(context.Background(), models.DefaultQueryConfig())
	})
}

