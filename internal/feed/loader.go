package feed

import (
	"context"
	"sync"

	"newsfeed/internal/logger"
	"newsfeed/internal/metrics"
	"newsfeed/internal/models"
)

// Querier runs one feed query.
type Querier interface {
	Query(ctx context.Context, q models.QueryConfig) []models.Article
}

// Snapshot is the immutable result of one completed load.
type Snapshot struct {
	Articles   []models.Article
	Config     models.QueryConfig
	Generation uint64
}

// Loader runs queries in the background with last-started-wins delivery:
// starting a new load cancels the previous one, and a result whose load
// has been superseded is discarded.
type Loader struct {
	querier Querier
	log     *logger.Logger
	out     chan Snapshot
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	gen     uint64
	closed  bool
}

// NewLoader creates a loader around querier.
func NewLoader(querier Querier, log *logger.Logger) *Loader {
	return &Loader{
		querier: querier,
		log:     log.With("component", "loader"),
		out:     make(chan Snapshot, 1),
	}
}

// Snapshots delivers completed loads. It is closed by Close.
func (l *Loader) Snapshots() <-chan Snapshot {
	return l.out
}

// Restart supersedes any in-flight load and starts a new one for q.
// It returns the generation of the new load, or 0 if the loader is closed.
func (l *Loader) Restart(ctx context.Context, q models.QueryConfig) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0
	}

	l.supersede()

	gen := l.gen

	loadCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	l.wg.Add(1)

	go l.run(loadCtx, gen, q)

	l.log.Debug("load started", "generation", gen, "page_size", q.PageSize, "topic", q.Topic)

	return gen
}

// Cancel supersedes any in-flight load without starting another. A result
// it would have produced, or one not yet received, is never delivered.
func (l *Loader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.supersede()
}

// supersede cancels the in-flight load, bumps the generation and drops an
// undelivered snapshot. l.mu must be held.
func (l *Loader) supersede() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}

	l.gen++

	select {
	case <-l.out:
	default:
	}
}

func (l *Loader) run(ctx context.Context, gen uint64, q models.QueryConfig) {
	defer l.wg.Done()

	articles := l.querier.Query(ctx, q)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.gen {
		l.log.Debug("discarding superseded load", "generation", gen, "latest", l.gen)
		metrics.RecordSuperseded()

		return
	}

	// replace an undelivered older snapshot
	select {
	case <-l.out:
	default:
	}

	l.out <- Snapshot{Articles: articles, Config: q, Generation: gen}
}

// Close cancels the in-flight load, waits for it and closes Snapshots.
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}

	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()

	l.wg.Wait()
	close(l.out)
}
