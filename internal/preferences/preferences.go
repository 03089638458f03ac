// Package preferences holds the user-editable feed options: how many items a
// page shows and which topic it is filtered to.
package preferences

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"newsfeed/internal/logger"
	"newsfeed/internal/models"
)

const (
	KeyItemsPerPage  = "items-per-page"
	KeyTopicCategory = "topic-category"

	envPrefix = "NEWSFEED"

	settleDelay = 100 * time.Millisecond
)

var (
	ErrUnknownKey = errors.New("unknown preference key")
	ErrNoFile     = errors.New("preferences store has no backing file")
)

// Change is emitted when the backing file is modified on disk.
type Change struct {
	Path string
	Op   fsnotify.Op
}

// Store reads preferences from an optional YAML file layered over defaults,
// with NEWSFEED_ITEMS_PER_PAGE and NEWSFEED_TOPIC_CATEGORY taking precedence.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
	log  *logger.Logger
}

// New creates a store backed by path. An empty path or a missing file means
// defaults only.
func New(path string, log *logger.Logger) (*Store, error) {
	v := viper.New()

	v.SetDefault(KeyItemsPerPage, strconv.Itoa(models.DefaultPageSize))
	v.SetDefault(KeyTopicCategory, models.NoTopicFilter)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	s := &Store{v: v, log: log.With("component", "preferences")}

	if path != "" {
		s.path = filepath.Clean(path)
		v.SetConfigFile(s.path)
		v.SetConfigType("yaml")

		if err := s.reload(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Path returns the backing file, or "" if there is none.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) reload() error {
	if s.path == "" {
		return nil
	}

	if err := s.v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// A deleted file means defaults again, not the last values read.
			return s.v.ReadConfig(bytes.NewReader(nil))
		}

		return fmt.Errorf("reading preferences %s: %w", s.path, err)
	}

	return nil
}

// Query returns the query configuration from the current file contents.
// The file is re-read on every call; nothing is cached between queries.
// A missing file yields the defaults; an unparseable one keeps the last
// good values.
func (s *Store) Query() models.QueryConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(); err != nil {
		s.log.Warn("keeping previous preferences", "error", err)
	}

	raw := strings.TrimSpace(s.v.GetString(KeyItemsPerPage))

	pageSize, err := strconv.Atoi(raw)
	if err != nil {
		s.log.Warn("items-per-page is not an integer, using default",
			"value", raw, "default", models.DefaultPageSize)

		pageSize = models.DefaultPageSize
	}

	topic := strings.TrimSpace(s.v.GetString(KeyTopicCategory))
	if topic == "" {
		topic = models.NoTopicFilter
	}

	return models.QueryConfig{Topic: topic, PageSize: pageSize}
}

// Get returns the effective string value of a preference.
func (s *Store) Get(key string) (string, error) {
	if !isKnownKey(key) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.v.GetString(key), nil
}

// Set stores value for key and writes the file.
func (s *Store) Set(key, value string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	if s.path == "" {
		return ErrNoFile
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Only file contents are written back. Defaults and env stay out of it.
	file := viper.New()
	file.SetConfigFile(s.path)
	file.SetConfigType("yaml")

	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading preferences %s: %w", s.path, err)
	}

	file.Set(key, value)

	if err := file.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing preferences %s: %w", s.path, err)
	}

	return s.reload()
}

// Watch emits a Change whenever the backing file is written, created or
// replaced. Bursts of events are coalesced and at most one Change is
// pending. The channel is closed once ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan Change, error) {
	if s.path == "" {
		return nil, ErrNoFile
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors often save by rename, so watch the directory.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.path, err)
	}

	changes := make(chan Change, 1)

	go func() {
		defer close(changes)
		defer watcher.Close()

		// A save is often several events (truncate, write, chmod). Emit once
		// the file has been quiet for settleDelay.
		settle := time.NewTimer(time.Hour)
		settle.Stop()

		defer settle.Stop()

		var pending *Change

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != s.path {
					continue
				}

				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				pending = &Change{Path: event.Name, Op: event.Op}
				settle.Reset(settleDelay)
			case <-settle.C:
				if pending == nil {
					continue
				}

				s.log.Debug("preferences file changed", "op", pending.Op.String())

				select {
				case changes <- *pending:
				default:
				}

				pending = nil
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				s.log.Warn("preferences watcher error", "error", err)
			}
		}
	}()

	return changes, nil
}

func isKnownKey(key string) bool {
	return key == KeyItemsPerPage || key == KeyTopicCategory
}
