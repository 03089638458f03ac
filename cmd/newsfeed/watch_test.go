package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/config"
	"newsfeed/internal/logger"
	"newsfeed/internal/preferences"
	"newsfeed/internal/presentation"
)

// onlineOnce reports online for the first check only.
type onlineOnce struct {
	calls atomic.Int32
}

func (o *onlineOnce) Online(context.Context) bool {
	return o.calls.Add(1) == 1
}

func TestWatch_GoingOfflineDropsInFlightLoad(t *testing.T) {
	requested := make(chan struct{}, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case requested <- struct{}{}:
		default:
		}

		select {
		case <-time.After(600 * time.Millisecond):
		case <-r.Context().Done():
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"response":{"results":[{
			"sectionName": "Politics",
			"webPublicationDate": "2023-05-01T10:15:30Z",
			"webTitle": "Slow page-size %s",
			"webUrl": "https://www.theguardian.com/politics/slow"
		}]}}`, r.URL.Query().Get("page-size"))
	}))
	defer srv.Close()

	prefsPath := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(prefsPath, []byte("items-per-page: \"5\"\n"), 0o644))

	prefs, err := preferences.New(prefsPath, logger.Discard())
	require.NoError(t, err)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL + "/search"
	cfg.Presentation.Colors = false

	a := &app{cfg: cfg, log: logger.Discard(), prefs: prefs, checker: &onlineOnce{}}

	out := &syncBuffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.watch(ctx, cmd) }()

	select {
	case <-requested:
	case <-time.After(5 * time.Second):
		t.Fatal("first load never reached the upstream")
	}

	require.NoError(t, os.WriteFile(prefsPath, []byte("items-per-page: \"7\"\n"), 0o644))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), presentation.MessageOffline)
	}, 5*time.Second, 20*time.Millisecond)

	// Longer than the upstream delay: the first load would have finished by now.
	time.Sleep(time.Second)

	assert.NotContains(t, out.String(), "Slow page-size 5")
	assert.Contains(t, out.String(), "(7 items)")

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
