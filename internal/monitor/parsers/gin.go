package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lookuply/infrastructure/internal/monitor"
)

// ginPattern matches framework access lines like:
//
//	[GIN] 2025/12/11 - 20:36:00 | 200 |     294.081µs |             ::1 | GET      "/api/tags"
var ginPattern = regexp.MustCompile(`\[GIN\]\s+(\d{4}/\d{2}/\d{2})\s+-\s+(\d{2}:\d{2}:\d{2})\s+\|\s+(\d+)\s+\|[^|]+\|[^|]+\|\s+(\w+)\s+"([^"]+)"`)

// Gin parses Gin web framework access logs.
type Gin struct{}

func (p *Gin) ID() string { return IDGin }

// Parse extracts the embedded timestamp, status, method, and path.
func (p *Gin) Parse(line string) (monitor.LogEntry, bool) {
	m := ginPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return monitor.LogEntry{}, false
	}

	ts, _ := time.ParseInLocation("2006/01/02 15:04:05", m[1]+" "+m[2], time.Local)
	status, _ := strconv.Atoi(m[3])
	method, path := m[4], m[5]

	return monitor.LogEntry{
		Time:     ts,
		Severity: severityFromStatus(status),
		Message:  fmt.Sprintf("%s %s → %d", method, path, status),
		Raw:      line,
		Fields: map[string]string{
			"method": method,
			"path":   path,
			"status": m[3],
		},
	}, true
}
