package monitor

import "time"

// event is one unit of work delivered to the Aggregator. Exactly one of the
// payload fields is set per event.
type event struct {
	entry    *LogEntry
	health   *healthEvent
	resource *ResourceSnapshot
	workers  *workersEvent
	parseErr *parseFailEvent
}

// healthEvent reports a source health transition.
type healthEvent struct {
	Source string
	Health SourceHealth
	Err    string
	At     time.Time
}

// workersEvent carries a coordinator poll result. Stale is set when the
// poller has crossed its consecutive-failure threshold.
type workersEvent struct {
	Stats WorkerStats
}

// parseFailEvent records a line that no parser could structure. The raw line
// still enters the tail as a plain entry; this event only moves the counter.
type parseFailEvent struct {
	Source string
}
