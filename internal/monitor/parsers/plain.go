package parsers

import (
	"strings"

	"github.com/lookuply/infrastructure/internal/monitor"
)

// Plain is the passthrough parser: every non-blank line becomes an Info
// entry verbatim. It never misses, so sources bound to it report no parse
// failures.
type Plain struct{}

func (p *Plain) ID() string { return IDPlain }

func (p *Plain) Parse(line string) (monitor.LogEntry, bool) {
	line = strings.TrimRight(line, "\r\n")
	return monitor.LogEntry{
		Severity: monitor.SeverityInfo,
		Message:  line,
		Raw:      line,
	}, true
}
