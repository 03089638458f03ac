// Package feed implements the news feed pipeline: URL construction, fetching,
// parsing and the query service that composes them.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"newsfeed/internal/logger"
	"newsfeed/internal/metrics"
	"newsfeed/pkg/utils"
)

// Fixed network timeouts.
const (
	ConnectTimeout = 15 * time.Second
	ReadTimeout    = 10 * time.Second
)

// Fetch errors.
var (
	ErrMalformedRequest     = errors.New("malformed request url")
	ErrNetwork              = errors.New("network error")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrReadTimeout          = errors.New("read timed out")
)

// Fetcher performs GET requests against the upstream API.
type Fetcher struct {
	client      *http.Client
	http        *utils.HTTPHelper
	log         *logger.Logger
	readTimeout time.Duration
}

// NewFetcher creates a fetcher with the fixed connect and read timeouts.
func NewFetcher(log *logger.Logger) *Fetcher {
	dialer := &net.Dialer{Timeout: ConnectTimeout}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   ConnectTimeout,
		ResponseHeaderTimeout: ReadTimeout,
		MaxIdleConns:          4,
		IdleConnTimeout:       30 * time.Second,
	}

	return &Fetcher{
		client:      &http.Client{Transport: transport},
		http:        utils.NewHTTPHelper(),
		log:         log.With("component", "fetcher"),
		readTimeout: ReadTimeout,
	}
}

// Fetch returns the body of a 200 response as UTF-8 text. Any other status,
// an I/O failure or a malformed URL yields an error wrapping
// ErrMalformedRequest or ErrNetwork; the failure is logged here.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	startTime := time.Now()

	if !f.http.IsValidURL(rawURL) {
		err := fmt.Errorf("%w: %q", ErrMalformedRequest, rawURL)
		f.log.Error("problem building the request url", "error_kind", "MalformedRequestError", "error", err)
		metrics.RecordFetch(metrics.OutcomeMalformedRequest, time.Since(startTime).Seconds())

		return "", err
	}

	body, status, err := f.do(ctx, rawURL)
	duration := time.Since(startTime)

	if err != nil {
		kind, outcome := "NetworkError", metrics.OutcomeNetworkError

		switch {
		case errors.Is(err, ErrMalformedRequest):
			kind, outcome = "MalformedRequestError", metrics.OutcomeMalformedRequest
		case errors.Is(err, ErrUnexpectedStatusCode):
			outcome = metrics.OutcomeHTTPError
		}

		f.log.Error("problem retrieving the feed",
			"error_kind", kind,
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		metrics.RecordFetch(outcome, duration.Seconds())

		return "", err
	}

	f.log.Debug("feed fetched", "bytes", len(body), "duration_ms", duration.Milliseconds())
	metrics.RecordFetch(metrics.OutcomeSuccess, duration.Seconds())

	return body, nil
}

func (f *Fetcher) do(ctx context.Context, rawURL string) (string, int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}

	req.Header = f.http.BuildHeaders(nil)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: request failed: %w", ErrNetwork, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

		return "", resp.StatusCode, fmt.Errorf("%w: %w: %d", ErrNetwork, ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := readAllWithIdleTimeout(resp.Body, f.readTimeout, cancel)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
	}

	return strings.ToValidUTF8(string(body), "\uFFFD"), resp.StatusCode, nil
}

// readAllWithIdleTimeout reads r to EOF, calling cancel if any single read
// waits longer than timeout.
func readAllWithIdleTimeout(r io.Reader, timeout time.Duration, cancel context.CancelFunc) ([]byte, error) {
	var expired atomic.Bool

	timer := time.AfterFunc(timeout, func() {
		expired.Store(true)
		cancel()
	})
	defer timer.Stop()

	body, err := io.ReadAll(&idleReader{r: r, timer: timer, timeout: timeout})
	if err != nil {
		if expired.Load() {
			return nil, fmt.Errorf("%w after %s: %w", ErrReadTimeout, timeout, err)
		}

		return nil, err
	}

	return body, nil
}

type idleReader struct {
	r       io.Reader
	timer   *time.Timer
	timeout time.Duration
}

func (ir *idleReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if n > 0 {
		ir.timer.Reset(ir.timeout)
	}

	return n, err
}
