package parsers

import (
	"regexp"
	"strings"
	"time"

	"github.com/lookuply/infrastructure/internal/monitor"
)

// celeryPattern matches worker task lines like:
//
//	[2025-12-11 20:40:00,123: INFO/MainProcess] Task app.tasks.crawl[...] succeeded
var celeryPattern = regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}),\d+:\s+(\w+)/[^\]]+\]\s+(.+)`)

// tracebackPattern extracts the error type and message from Python
// exception lines.
var tracebackPattern = regexp.MustCompile(`(\w+(?:Error|Exception)):\s*(.+)`)

// Celery parses worker logs. Lines outside the standard worker format still
// produce an entry: Python tracebacks and raise lines classify as errors so
// a crashing worker shows up in the errors panel rather than the tail only.
type Celery struct{}

func (p *Celery) ID() string { return IDCelery }

func (p *Celery) Parse(line string) (monitor.LogEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return monitor.LogEntry{}, false
	}

	if m := celeryPattern.FindStringSubmatch(line); m != nil {
		ts, _ := time.ParseInLocation("2006-01-02 15:04:05", m[1], time.Local)
		return monitor.LogEntry{
			Time:     ts,
			Severity: monitor.ParseSeverity(m[2]),
			Message:  m[3],
			Raw:      line,
		}, true
	}

	sev := monitor.SeverityInfo
	switch {
	case strings.Contains(line, "Error:"),
		strings.Contains(line, "Exception:"),
		strings.Contains(line, "Traceback"),
		strings.Contains(line, "raise "):
		sev = monitor.SeverityError
	case strings.Contains(strings.ToLower(line), "warn"):
		sev = monitor.SeverityWarn
	}

	message := line
	if m := tracebackPattern.FindStringSubmatch(line); m != nil {
		message = m[1] + ": " + m[2]
	}

	return monitor.LogEntry{
		Severity: sev,
		Message:  message,
		Raw:      line,
	}, true
}
