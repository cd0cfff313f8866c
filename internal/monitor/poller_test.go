package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookuply/infrastructure/internal/logger"
)

func TestPollerFetchesStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/worker-stats", r.URL.Path)
		w.Write([]byte(`{"evaluated": 75, "pending": 20, "processing": 3, "failed": 2, "workers_active": 4}`))
	}))
	defer srv.Close()

	a, ctx := startAggregator(t)
	p := NewStatsPoller(srv.URL, 10*time.Millisecond, 3, a, logger.Noop())
	go p.Run(ctx)

	assert.Eventually(t, func() bool {
		snap := a.Snapshot()
		return snap.HasWorkers && snap.Workers.Evaluated == 75 &&
			snap.Workers.ActiveWorkers == 4 && !snap.Workers.Stale
	}, time.Second, 5*time.Millisecond)
}

func TestPollerMarksStaleAfterConsecutiveFailures(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"evaluated": 10, "pending": 10}`))
	}))
	defer srv.Close()

	a, ctx := startAggregator(t)
	p := NewStatsPoller(srv.URL, 10*time.Millisecond, 2, a, logger.Noop())
	go p.Run(ctx)

	require.Eventually(t, func() bool {
		return a.Snapshot().HasWorkers
	}, time.Second, 5*time.Millisecond)

	failing.Store(true)

	// The last good figures stay up, flagged stale once the failure
	// threshold is crossed.
	assert.Eventually(t, func() bool {
		snap := a.Snapshot()
		return snap.Workers.Stale && snap.Workers.Evaluated == 10
	}, time.Second, 5*time.Millisecond)

	failing.Store(false)
	assert.Eventually(t, func() bool {
		return !a.Snapshot().Workers.Stale
	}, time.Second, 5*time.Millisecond)
}

func TestPollerNoStatsBeforeFirstSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a, ctx := startAggregator(t)
	p := NewStatsPoller(srv.URL, 10*time.Millisecond, 2, a, logger.Noop())
	go p.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	assert.False(t, a.Snapshot().HasWorkers)
}

func TestPollerFetchErrors(t *testing.T) {
	a := NewAggregator(AggregatorOptions{}, logger.Noop())

	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		p := NewStatsPoller(srv.URL, time.Second, 1, a, logger.Noop())
		_, err := p.fetch(context.Background())
		require.Error(t, err)
	})

	t.Run("bad body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		p := NewStatsPoller(srv.URL, time.Second, 1, a, logger.Noop())
		_, err := p.fetch(context.Background())
		require.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		p := NewStatsPoller("http://127.0.0.1:1", time.Second, 1, a, logger.Noop())
		_, err := p.fetch(context.Background())
		require.Error(t, err)
	})
}

func TestPollerTimeoutTracksInterval(t *testing.T) {
	a := NewAggregator(AggregatorOptions{}, logger.Noop())

	tests := []struct {
		name     string
		interval time.Duration
		want     time.Duration
	}{
		{"short interval", time.Second, time.Second},
		{"long interval capped", 30 * time.Second, maxPollTimeout},
		{"zero interval capped", 0, maxPollTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewStatsPoller("http://localhost:8000", tt.interval, 1, a, logger.Noop())
			assert.Equal(t, tt.want, p.client.Timeout)
		})
	}
}

func TestWorkerStatsProgressRatio(t *testing.T) {
	tests := []struct {
		name  string
		stats WorkerStats
		want  float64
	}{
		{"empty", WorkerStats{}, 0},
		{"all evaluated", WorkerStats{Evaluated: 10}, 1},
		{"mixed", WorkerStats{Evaluated: 75, Pending: 20, Processing: 3, Failed: 2}, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.stats.ProgressRatio(), 1e-9)
		})
	}
}
