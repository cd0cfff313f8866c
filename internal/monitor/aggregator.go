package monitor

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/lookuply/infrastructure/internal/logger"
)

// eventBufferSize bounds the aggregator's inbox. Producers block when the
// aggregator falls behind; nothing is dropped.
const eventBufferSize = 1024

// AggregatorOptions sizes the aggregator's bounded state.
type AggregatorOptions struct {
	MaxErrors  int           // error panel ring capacity
	MaxTail    int           // live tail ring capacity
	Window     time.Duration // request-stats rollover window
	CPUHistory int           // CPU sparkline sample count
}

// Aggregator owns all dashboard state. Every mutation flows through a single
// consumer goroutine reading from a bounded channel; readers get immutable
// deep-copied snapshots.
type Aggregator struct {
	opts AggregatorOptions
	log  logger.Logger

	events chan event

	mu         sync.Mutex
	version    uint64
	sources    map[string]*SourceStatus
	services   map[string]*ServiceStats
	errRing    *entryRing
	tailRing   *entryRing
	resources  ResourceSnapshot
	cpuHistory *floatRing
	workers    WorkerStats
	hasWorkers bool

	now func() time.Time
}

// NewAggregator builds an aggregator with the given bounds. Zero or negative
// capacities fall back to sane minimums.
func NewAggregator(opts AggregatorOptions, log logger.Logger) *Aggregator {
	if opts.MaxErrors < 1 {
		opts.MaxErrors = 10
	}
	if opts.MaxTail < 1 {
		opts.MaxTail = 5
	}
	if opts.Window <= 0 {
		opts.Window = time.Minute
	}
	if opts.CPUHistory < 1 {
		opts.CPUHistory = 60
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Aggregator{
		opts:       opts,
		log:        log,
		events:     make(chan event, eventBufferSize),
		sources:    make(map[string]*SourceStatus),
		services:   make(map[string]*ServiceStats),
		errRing:    newEntryRing(opts.MaxErrors),
		tailRing:   newEntryRing(opts.MaxTail),
		cpuHistory: newFloatRing(opts.CPUHistory),
		now:        time.Now,
	}
}

// Run consumes events until ctx is cancelled. Call exactly once, usually in
// its own goroutine.
func (a *Aggregator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-a.events:
			a.apply(ev)
		}
	}
}

// RecordEntry submits a parsed log entry. Blocks when the aggregator is
// saturated; returns once accepted or when ctx is cancelled.
func (a *Aggregator) RecordEntry(ctx context.Context, e LogEntry) {
	a.send(ctx, event{entry: &e})
}

// RecordHealth submits a source health transition.
func (a *Aggregator) RecordHealth(ctx context.Context, source string, h SourceHealth, errMsg string) {
	a.send(ctx, event{health: &healthEvent{Source: source, Health: h, Err: errMsg, At: a.now()}})
}

// RecordResource submits a host resource sample. The sample replaces the
// previous snapshot entirely.
func (a *Aggregator) RecordResource(ctx context.Context, r ResourceSnapshot) {
	a.send(ctx, event{resource: &r})
}

// RecordWorkers submits a coordinator poll result.
func (a *Aggregator) RecordWorkers(ctx context.Context, w WorkerStats) {
	a.send(ctx, event{workers: &workersEvent{Stats: w}})
}

// RecordParseFailure bumps the parse-failure counter for a source's service.
func (a *Aggregator) RecordParseFailure(ctx context.Context, source string) {
	a.send(ctx, event{parseErr: &parseFailEvent{Source: source}})
}

func (a *Aggregator) send(ctx context.Context, ev event) {
	select {
	case a.events <- ev:
	case <-ctx.Done():
	}
}

func (a *Aggregator) apply(ev event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.version++

	switch {
	case ev.entry != nil:
		a.applyEntry(*ev.entry)
	case ev.health != nil:
		a.applyHealth(*ev.health)
	case ev.resource != nil:
		a.resources = *ev.resource
		a.cpuHistory.Push(ev.resource.CPUPercent)
	case ev.workers != nil:
		a.workers = ev.workers.Stats
		a.hasWorkers = true
	case ev.parseErr != nil:
		a.service(ev.parseErr.Source).ParseFailures++
	}
}

func (a *Aggregator) applyEntry(e LogEntry) {
	src := a.source(e.Source)
	src.Lines++
	src.LastSuccess = a.now()

	a.tailRing.Push(e)
	if e.Severity >= SeverityError {
		a.errRing.Push(e)
	}

	svc := a.service(e.Source)
	a.rollWindow(svc)
	if e.Severity >= SeverityError {
		svc.Errors++
	}
	if path, ok := e.Fields["path"]; ok {
		svc.Requests++
		if svc.Paths == nil {
			svc.Paths = make(map[string]int64)
		}
		svc.Paths[path]++
		if code, err := strconv.Atoi(e.Fields["status"]); err == nil && code >= 500 && e.Severity < SeverityError {
			svc.Errors++
		}
	}
}

func (a *Aggregator) applyHealth(h healthEvent) {
	src := a.source(h.Source)
	if src.Health != h.Health {
		a.log.Debug("source %s: %s -> %s (%s)", h.Source, src.Health, h.Health, h.Err)
	}
	src.Health = h.Health
	if h.Err != "" {
		src.LastError = h.Err
	}
	if h.Health == HealthActive {
		src.LastSuccess = h.At
	}
}

func (a *Aggregator) source(name string) *SourceStatus {
	s, ok := a.sources[name]
	if !ok {
		s = &SourceStatus{Health: HealthActive}
		a.sources[name] = s
	}
	return s
}

func (a *Aggregator) service(name string) *ServiceStats {
	s, ok := a.services[name]
	if !ok {
		s = &ServiceStats{WindowStart: a.now()}
		a.services[name] = s
	}
	return s
}

// rollWindow resets a service's counters once the stats window elapses.
func (a *Aggregator) rollWindow(s *ServiceStats) {
	if a.now().Sub(s.WindowStart) < a.opts.Window {
		return
	}
	s.Requests = 0
	s.Errors = 0
	s.ParseFailures = 0
	s.Paths = nil
	s.WindowStart = a.now()
}

// ClearErrors empties the error panel. Wired to the dashboard's clear key.
func (a *Aggregator) ClearErrors() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.version++
	a.errRing.Clear()
}

// Snapshot returns a deep copy of the current state. Safe to call from any
// goroutine; the copy never aliases live state.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Version:    a.version,
		Sources:    make(map[string]SourceStatus, len(a.sources)),
		Services:   make(map[string]ServiceStats, len(a.services)),
		Errors:     a.errRing.Items(),
		Tail:       a.tailRing.Items(),
		Resources:  a.resources,
		CPUHistory: a.cpuHistory.Items(),
		Workers:    a.workers,
		HasWorkers: a.hasWorkers,
	}
	for name, s := range a.sources {
		snap.Sources[name] = *s
	}
	for name, s := range a.services {
		cp := *s
		if s.Paths != nil {
			cp.Paths = make(map[string]int64, len(s.Paths))
			for p, n := range s.Paths {
				cp.Paths[p] = n
			}
		}
		snap.Services[name] = cp
	}
	return snap
}
