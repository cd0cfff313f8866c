// Package monitor implements a real-time TUI dashboard for the log streams
// and host resources of a running crawl deployment.
//
// The dashboard tails docker service streams and rotating log files, parses
// each line into a structured entry, aggregates bounded in-memory state, and
// renders live panels for source health, AI evaluation progress, recent
// errors, request statistics, host resources, and an interleaved tail.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm
// Architecture (Model-Update-View pattern):
//
//   - Model: Holds rendering state and the latest aggregator snapshot
//   - Update: Processes messages (keystrokes, tick events)
//   - View: Renders the current snapshot to a string for display
//
// # Key Components
//
//	Aggregator      - Single-goroutine owner of all dashboard state
//	StreamSource    - Follows a docker container log stream with backoff
//	FileSource      - Tails a log file across rotation
//	StatsPoller     - Polls the coordinator's /worker-stats endpoint
//	ResourceSampler - Reads host CPU, memory, and disk usage
//	Model           - The Bubble Tea model driving the render loop
//
// # Data Flow
//
// Sources, the poller, and the sampler all submit events into the
// aggregator's bounded channel from their own goroutines:
//
//  1. A source reads a raw line and runs it through its configured Parser
//  2. The aggregator's consumer goroutine folds the event into ring buffers
//     and per-service counters
//  3. tickMsg fires at the render interval and the Model pulls an immutable
//     deep-copied Snapshot
//  4. View() re-renders every panel from the snapshot
//
// Producers block when the aggregator falls behind; no event is ever
// silently dropped.
//
// # Source Health
//
// Every source runs a small state machine: Active while lines flow,
// Unavailable on a read failure, Retrying once the retry delay elapses, and
// back to Active on the next successful read. A container that does not
// exist or a log file that has not been created yet is a normal condition,
// not an error.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	c           - Clear the recent errors panel
//	p           - Pause / resume the live tail
package monitor
