package monitor

import (
	"strings"
	"time"
)

// Severity classifies a parsed log entry.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

// String returns the canonical upper-case severity token.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseSeverity maps a level token from a log line to a Severity.
// Unknown tokens map to Info; CRITICAL and FATAL count as errors.
func ParseSeverity(token string) Severity {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "DEBUG", "TRACE":
		return SeverityDebug
	case "WARN", "WARNING":
		return SeverityWarn
	case "ERROR", "CRITICAL", "CRIT", "FATAL", "EMERG", "ALERT":
		return SeverityError
	default:
		return SeverityInfo
	}
}

// LogEntry is one parsed log line. Entries are immutable values once created;
// they flow from sources through the aggregator into rendered snapshots.
type LogEntry struct {
	Source   string // logical source name from config
	Time     time.Time
	Severity Severity
	Message  string
	Raw      string
	// Fields carries format-specific structure (method/path/status for HTTP
	// lines, link counts for crawler lines). Nil for unstructured entries.
	Fields map[string]string
}

// SourceHealth is the health state machine for one log source.
//
// Transitions: Active → Unavailable on a read failure; Unavailable → Retrying
// once the backoff interval elapses; Retrying → Active on the next successful
// read; Retrying → Unavailable on renewed failure. Unavailable is never
// skipped on the way down.
type SourceHealth int

const (
	HealthActive SourceHealth = iota
	HealthUnavailable
	HealthRetrying
)

// String returns a human-readable health label.
func (h SourceHealth) String() string {
	switch h {
	case HealthActive:
		return "active"
	case HealthUnavailable:
		return "unavailable"
	case HealthRetrying:
		return "retrying"
	default:
		return "unknown"
	}
}

// SourceStatus is the aggregated view of one source's health.
type SourceStatus struct {
	Health      SourceHealth
	LastSuccess time.Time
	LastError   string
	Lines       int64 // total lines read since startup
}

// ServiceStats tracks request/error counters for one logical service within
// the current window. Invariant: Errors ≤ Requests is not enforced here
// because error-log entries count as errors without a request; the request
// counter only moves for HTTP-shaped entries.
type ServiceStats struct {
	Requests      int64
	Errors        int64
	ParseFailures int64
	WindowStart   time.Time
	// Paths counts hits per request path within the window (top-endpoints panel).
	Paths map[string]int64
}

// ResourceSnapshot is a point-in-time host resource reading. Each sample
// replaces the previous snapshot wholesale; it is never merged field by field.
type ResourceSnapshot struct {
	CPUPercent float64
	MemUsed    uint64
	MemTotal   uint64
	DiskUsed   uint64
	DiskTotal  uint64
	Time       time.Time
	Stale      bool
}

// MemPercent returns memory usage as a percentage, zero-guarded.
func (r ResourceSnapshot) MemPercent() float64 {
	if r.MemTotal == 0 {
		return 0
	}
	return float64(r.MemUsed) / float64(r.MemTotal) * 100
}

// DiskPercent returns disk usage as a percentage, zero-guarded.
func (r ResourceSnapshot) DiskPercent() float64 {
	if r.DiskTotal == 0 {
		return 0
	}
	return float64(r.DiskUsed) / float64(r.DiskTotal) * 100
}

// WorkerStats is the coordinator's view of AI evaluation progress.
type WorkerStats struct {
	Evaluated     int64 `json:"evaluated"`
	Pending       int64 `json:"pending"`
	Processing    int64 `json:"processing"`
	Failed        int64 `json:"failed"`
	ActiveWorkers int64 `json:"workers_active"`

	FetchedAt time.Time `json:"-"`
	Stale     bool      `json:"-"`
}

// ProgressRatio returns evaluated / (evaluated+pending+processing+failed),
// or 0 when no pages are known yet.
func (w WorkerStats) ProgressRatio() float64 {
	total := w.Evaluated + w.Pending + w.Processing + w.Failed
	if total == 0 {
		return 0
	}
	return float64(w.Evaluated) / float64(total)
}

// Snapshot is an immutable point-in-time copy of the aggregated dashboard
// state handed to the renderer. The renderer only ever reads snapshots; the
// live state is owned by the Aggregator.
type Snapshot struct {
	Version    uint64
	Sources    map[string]SourceStatus
	Services   map[string]ServiceStats
	Errors     []LogEntry // newest last; capacity-bounded
	Tail       []LogEntry // interleaved live tail, arrival order, newest last
	Resources  ResourceSnapshot
	CPUHistory []float64 // recent CPU samples for the sparkline, oldest first
	Workers    WorkerStats
	HasWorkers bool // false until the first successful poll
}
