package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lookuply/infrastructure/internal/errors"
	"github.com/lookuply/infrastructure/internal/logger"
)

// maxPollTimeout caps the per-request timeout. The effective timeout never
// exceeds the poll interval, so a hung endpoint cannot stall the serial poll
// loop across multiple ticks and delay staleness detection.
const maxPollTimeout = 5 * time.Second

// StatsPoller periodically fetches worker progress from the coordinator's
// /worker-stats endpoint. Poll failures are routine (the coordinator restarts
// independently); the last good result is kept on screen and marked stale
// after staleAfter consecutive failures.
type StatsPoller struct {
	url        string
	interval   time.Duration
	staleAfter int
	agg        *Aggregator
	log        logger.Logger
	client     *http.Client

	last     WorkerStats
	hasLast  bool
	failures int
}

// NewStatsPoller builds a poller against the coordinator base URL.
func NewStatsPoller(baseURL string, interval time.Duration, staleAfter int, agg *Aggregator, log logger.Logger) *StatsPoller {
	if staleAfter < 1 {
		staleAfter = 1
	}
	timeout := interval
	if timeout <= 0 || timeout > maxPollTimeout {
		timeout = maxPollTimeout
	}
	return &StatsPoller{
		url:        strings.TrimRight(baseURL, "/") + "/worker-stats",
		interval:   interval,
		staleAfter: staleAfter,
		agg:        agg,
		log:        log,
		client:     &http.Client{Timeout: timeout},
	}
}

// Run polls until ctx is cancelled. The first poll fires immediately.
func (p *StatsPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *StatsPoller) poll(ctx context.Context) {
	stats, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.failures++
		p.log.Debug("worker-stats poll failed (%d consecutive): %v", p.failures, err)
		// Crossing the threshold marks the last good reading stale; before
		// that the previous reading stands as-is.
		if p.hasLast && p.failures == p.staleAfter {
			p.last.Stale = true
			p.agg.RecordWorkers(ctx, p.last)
		}
		return
	}
	p.failures = 0
	p.last = stats
	p.hasLast = true
	p.agg.RecordWorkers(ctx, stats)
}

func (p *StatsPoller) fetch(ctx context.Context) (WorkerStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return WorkerStats{}, errors.WrapWithCode(err, errors.ErrPoll, "building worker-stats request", "")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return WorkerStats{}, errors.WrapWithCode(err, errors.ErrPoll, "fetching worker-stats",
			"check that the coordinator URL in the config is reachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return WorkerStats{}, errors.New(errors.ErrPoll,
			fmt.Sprintf("worker-stats returned %d", resp.StatusCode),
			"check that the coordinator is running and reachable")
	}

	var stats WorkerStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return WorkerStats{}, errors.WrapWithCode(err, errors.ErrPoll, "decoding worker-stats response", "")
	}
	stats.FetchedAt = time.Now()
	return stats, nil
}
