package monitor

import (
	"context"
	"strings"
	"time"
)

// Parser turns one raw log line into a structured entry. ok is false when the
// line does not match the parser's format; the caller still records the line
// as a plain entry so nothing vanishes from the live tail.
type Parser interface {
	// ID returns the parser's config identifier.
	ID() string
	// Parse structures a single line. The returned entry's Source field is
	// set by the caller, not the parser.
	Parse(line string) (LogEntry, bool)
}

// Source is one running log producer. Run blocks until ctx is cancelled,
// feeding entries and health transitions into the aggregator.
type Source interface {
	Name() string
	Run(ctx context.Context)
}

// sink funnels raw lines from a source through its parser into the
// aggregator. Shared by stream and file sources.
type sink struct {
	name   string
	parser Parser
	agg    *Aggregator
	now    func() time.Time
}

func newSink(name string, parser Parser, agg *Aggregator) *sink {
	return &sink{name: name, parser: parser, agg: agg, now: time.Now}
}

// Line parses and records one raw line. Blank lines are skipped; unparseable
// lines become plain Info entries and bump the service's parse-failure
// counter.
func (s *sink) Line(ctx context.Context, raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	entry, ok := s.parser.Parse(raw)
	if !ok {
		s.agg.RecordParseFailure(ctx, s.name)
		entry = LogEntry{
			Time:     s.now(),
			Severity: SeverityInfo,
			Message:  raw,
			Raw:      raw,
		}
	}
	entry.Source = s.name
	if entry.Time.IsZero() {
		entry.Time = s.now()
	}
	s.agg.RecordEntry(ctx, entry)
}

// health tracks a source's state machine and forwards transitions. Failures
// always pass through Unavailable before Retrying; recovery goes straight to
// Active.
type health struct {
	name  string
	agg   *Aggregator
	state SourceHealth
}

func newHealth(name string, agg *Aggregator) *health {
	return &health{name: name, agg: agg, state: HealthActive}
}

func (h *health) Down(ctx context.Context, err error) {
	if h.state == HealthUnavailable {
		return
	}
	h.state = HealthUnavailable
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	h.agg.RecordHealth(ctx, h.name, HealthUnavailable, msg)
}

func (h *health) Retrying(ctx context.Context) {
	if h.state == HealthRetrying {
		return
	}
	h.state = HealthRetrying
	h.agg.RecordHealth(ctx, h.name, HealthRetrying, "")
}

func (h *health) Up(ctx context.Context) {
	if h.state == HealthActive {
		return
	}
	h.state = HealthActive
	h.agg.RecordHealth(ctx, h.name, HealthActive, "")
}
