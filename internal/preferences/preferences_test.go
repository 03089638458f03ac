package preferences

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/logger"
	"newsfeed/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestStore_Defaults(t *testing.T) {
	s, err := New("", logger.Discard())
	require.NoError(t, err)

	q := s.Query()
	assert.Equal(t, models.DefaultPageSize, q.PageSize)
	assert.Equal(t, models.NoTopicFilter, q.Topic)
	assert.False(t, q.HasTopicFilter())
}

func TestStore_MissingFileUsesDefaults(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "prefs.yaml"), logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, models.DefaultQueryConfig(), s.Query())
}

func TestStore_ReadsFreshOnEveryQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	writeFile(t, path, "items-per-page: \"20\"\ntopic-category: politics\n")

	s, err := New(path, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, models.QueryConfig{Topic: "politics", PageSize: 20}, s.Query())

	writeFile(t, path, "items-per-page: \"5\"\ntopic-category: sport\n")

	assert.Equal(t, models.QueryConfig{Topic: "sport", PageSize: 5}, s.Query())
}

func TestStore_DeletedFileRestoresDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	writeFile(t, path, "items-per-page: \"20\"\ntopic-category: politics\n")

	s, err := New(path, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, models.QueryConfig{Topic: "politics", PageSize: 20}, s.Query())

	require.NoError(t, os.Remove(path))

	assert.Equal(t, models.DefaultQueryConfig(), s.Query())

	writeFile(t, path, "topic-category: sport\n")

	assert.Equal(t, models.QueryConfig{Topic: "sport", PageSize: models.DefaultPageSize}, s.Query())
}

func TestStore_NonIntegerPageSizeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	writeFile(t, path, "items-per-page: lots\n")

	s, err := New(path, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, models.DefaultPageSize, s.Query().PageSize)
}

func TestStore_OutOfRangePageSizePassesThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	writeFile(t, path, "items-per-page: \"0\"\n")

	s, err := New(path, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, 0, s.Query().PageSize)
}

func TestStore_EnvOverrides(t *testing.T) {
	t.Setenv("NEWSFEED_ITEMS_PER_PAGE", "30")
	t.Setenv("NEWSFEED_TOPIC_CATEGORY", "technology")

	s, err := New("", logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, models.QueryConfig{Topic: "technology", PageSize: 30}, s.Query())
}

func TestStore_SetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	s, err := New(path, logger.Discard())
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyTopicCategory, "world"))
	require.NoError(t, s.Set(KeyItemsPerPage, "12"))

	reopened, err := New(path, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, models.QueryConfig{Topic: "world", PageSize: 12}, reopened.Query())

	value, err := reopened.Get(KeyTopicCategory)
	require.NoError(t, err)
	assert.Equal(t, "world", value)
}

func TestStore_UnknownKey(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "prefs.yaml"), logger.Discard())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Set("colour", "blue"), ErrUnknownKey)

	_, err = s.Get("colour")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestStore_SetWithoutFile(t *testing.T) {
	s, err := New("", logger.Discard())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Set(KeyItemsPerPage, "10"), ErrNoFile)
}

func TestStore_WatchEmitsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	writeFile(t, path, "items-per-page: \"10\"\n")

	s, err := New(path, logger.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := s.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, path, "items-per-page: \"25\"\n")

	select {
	case change := <-changes:
		assert.Equal(t, path, filepath.Clean(change.Path))
	case <-time.After(5 * time.Second):
		t.Fatal("no change event after writing the preferences file")
	}

	assert.Equal(t, 25, s.Query().PageSize)

	cancel()

	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStore_WatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.yaml")
	writeFile(t, path, "items-per-page: \"10\"\n")

	s, err := New(path, logger.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := s.Watch(ctx)
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "other.yaml"), "x: 1\n")

	select {
	case change := <-changes:
		t.Fatalf("unexpected change event: %+v", change)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStore_WatchWithoutFile(t *testing.T) {
	s, err := New("", logger.Discard())
	require.NoError(t, err)

	_, err = s.Watch(context.Background())
	assert.ErrorIs(t, err, ErrNoFile)
}
