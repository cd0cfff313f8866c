package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookuply/infrastructure/internal/logger"
)

func newTestAggregator(opts AggregatorOptions) *Aggregator {
	return NewAggregator(opts, logger.Noop())
}

func httpEntry(source, path string, status int, sev Severity) LogEntry {
	return LogEntry{
		Source:   source,
		Severity: sev,
		Message:  fmt.Sprintf("GET %s → %d", path, status),
		Fields: map[string]string{
			"method": "GET",
			"path":   path,
			"status": fmt.Sprintf("%d", status),
		},
	}
}

func TestAggregatorEntryCounters(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{MaxErrors: 10, MaxTail: 5, Window: time.Minute})

	a.apply(event{entry: &LogEntry{Source: "api", Severity: SeverityInfo, Message: "startup"}})
	e := httpEntry("api", "/health", 200, SeverityInfo)
	a.apply(event{entry: &e})
	e2 := httpEntry("api", "/search", 500, SeverityError)
	a.apply(event{entry: &e2})

	snap := a.Snapshot()
	svc := snap.Services["api"]
	assert.Equal(t, int64(2), svc.Requests, "only HTTP-shaped entries count as requests")
	assert.Equal(t, int64(1), svc.Errors)
	assert.Equal(t, int64(1), svc.Paths["/health"])
	assert.Equal(t, int64(1), svc.Paths["/search"])

	src := snap.Sources["api"]
	assert.Equal(t, int64(3), src.Lines)
}

func TestAggregatorServerErrorWithoutErrorSeverity(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{})

	// An access-log 5xx at Warn severity still counts once as an error.
	e := httpEntry("nginx", "/api", 502, SeverityWarn)
	a.apply(event{entry: &e})

	svc := a.Snapshot().Services["nginx"]
	assert.Equal(t, int64(1), svc.Requests)
	assert.Equal(t, int64(1), svc.Errors)
}

func TestAggregatorErrorRingBounded(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{MaxErrors: 10, MaxTail: 5, Window: time.Minute})

	for i := 1; i <= 12; i++ {
		e := LogEntry{Source: "worker", Severity: SeverityError, Message: fmt.Sprintf("boom %d", i)}
		a.apply(event{entry: &e})
	}

	snap := a.Snapshot()
	require.Len(t, snap.Errors, 10)
	assert.Equal(t, "boom 3", snap.Errors[0].Message)
	assert.Equal(t, "boom 12", snap.Errors[9].Message)
	require.Len(t, snap.Tail, 5)
	assert.Equal(t, "boom 12", snap.Tail[4].Message)
}

func TestAggregatorWindowRollover(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{Window: time.Minute})
	now := time.Unix(1700000000, 0)
	a.now = func() time.Time { return now }

	e := httpEntry("api", "/a", 200, SeverityInfo)
	a.apply(event{entry: &e})
	require.Equal(t, int64(1), a.Snapshot().Services["api"].Requests)

	// Inside the window counters accumulate.
	now = now.Add(30 * time.Second)
	e2 := httpEntry("api", "/a", 200, SeverityInfo)
	a.apply(event{entry: &e2})
	assert.Equal(t, int64(2), a.Snapshot().Services["api"].Requests)

	// Crossing the window resets before the new entry counts.
	now = now.Add(time.Minute)
	e3 := httpEntry("api", "/b", 200, SeverityInfo)
	a.apply(event{entry: &e3})

	svc := a.Snapshot().Services["api"]
	assert.Equal(t, int64(1), svc.Requests)
	assert.Empty(t, svc.Paths["/a"])
	assert.Equal(t, int64(1), svc.Paths["/b"])
}

func TestAggregatorHealthTransitions(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{})

	a.apply(event{health: &healthEvent{Source: "api", Health: HealthUnavailable, Err: "no such container"}})
	snap := a.Snapshot()
	assert.Equal(t, HealthUnavailable, snap.Sources["api"].Health)
	assert.Equal(t, "no such container", snap.Sources["api"].LastError)

	a.apply(event{health: &healthEvent{Source: "api", Health: HealthRetrying}})
	assert.Equal(t, HealthRetrying, a.Snapshot().Sources["api"].Health)

	a.apply(event{health: &healthEvent{Source: "api", Health: HealthActive, At: time.Now()}})
	src := a.Snapshot().Sources["api"]
	assert.Equal(t, HealthActive, src.Health)
	assert.False(t, src.LastSuccess.IsZero())
	// The last error sticks around for diagnostics after recovery.
	assert.Equal(t, "no such container", src.LastError)
}

func TestAggregatorParseFailures(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{})

	a.apply(event{parseErr: &parseFailEvent{Source: "api"}})
	a.apply(event{parseErr: &parseFailEvent{Source: "api"}})

	assert.Equal(t, int64(2), a.Snapshot().Services["api"].ParseFailures)
}

func TestAggregatorResourceReplacesWholesale(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{})

	r1 := ResourceSnapshot{CPUPercent: 40, MemUsed: 100, MemTotal: 200, Time: time.Now()}
	a.apply(event{resource: &r1})
	r2 := ResourceSnapshot{CPUPercent: 60, Time: time.Now(), Stale: true}
	a.apply(event{resource: &r2})

	snap := a.Snapshot()
	assert.Equal(t, 60.0, snap.Resources.CPUPercent)
	assert.True(t, snap.Resources.Stale)
	assert.Zero(t, snap.Resources.MemUsed, "samples replace, never merge")
	assert.Equal(t, []float64{40, 60}, snap.CPUHistory)
}

func TestAggregatorWorkers(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{})

	assert.False(t, a.Snapshot().HasWorkers)

	a.apply(event{workers: &workersEvent{Stats: WorkerStats{Evaluated: 75, Pending: 25}}})
	snap := a.Snapshot()
	require.True(t, snap.HasWorkers)
	assert.InDelta(t, 0.75, snap.Workers.ProgressRatio(), 1e-9)
}

func TestAggregatorClearErrors(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{})

	e := LogEntry{Source: "api", Severity: SeverityError, Message: "boom"}
	a.apply(event{entry: &e})
	require.Len(t, a.Snapshot().Errors, 1)

	a.ClearErrors()
	snap := a.Snapshot()
	assert.Empty(t, snap.Errors)
	assert.Len(t, snap.Tail, 1, "clearing errors leaves the tail alone")
}

func TestSnapshotIsolation(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{})

	e := httpEntry("api", "/a", 200, SeverityInfo)
	a.apply(event{entry: &e})

	snap := a.Snapshot()
	snap.Services["api"].Paths["/a"] = 999
	snap.Errors = append(snap.Errors, LogEntry{Message: "injected"})
	delete(snap.Sources, "api")

	fresh := a.Snapshot()
	assert.Equal(t, int64(1), fresh.Services["api"].Paths["/a"])
	assert.Contains(t, fresh.Sources, "api")
}

func TestSnapshotVersionAdvances(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{})
	v0 := a.Snapshot().Version

	e := LogEntry{Source: "api", Severity: SeverityInfo, Message: "x"}
	a.apply(event{entry: &e})

	assert.Greater(t, a.Snapshot().Version, v0)
}

func TestAggregatorRunConsumesEvents(t *testing.T) {
	a := newTestAggregator(AggregatorOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.Run(ctx)

	for i := 0; i < 20; i++ {
		a.RecordEntry(ctx, LogEntry{Source: "api", Severity: SeverityInfo, Message: "line"})
	}

	assert.Eventually(t, func() bool {
		return a.Snapshot().Sources["api"].Lines == 20
	}, time.Second, 5*time.Millisecond)
}
