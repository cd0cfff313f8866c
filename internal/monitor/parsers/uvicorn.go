package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lookuply/infrastructure/internal/monitor"
)

// uvicornPattern matches leveled HTTP access lines like:
//
//	INFO:     172.18.0.7:35800 - "POST /api/v1/urls/159356/crawling HTTP/1.1" 200 OK
var uvicornPattern = regexp.MustCompile(`(\w+):\s+(\S+)\s+-\s+"(\w+)\s+(\S+)\s+HTTP/[\d.]+"\s+(\d+)`)

// Uvicorn parses uvicorn/FastAPI access logs.
type Uvicorn struct{}

func (p *Uvicorn) ID() string { return IDUvicorn }

// Parse extracts method, path, and status. The line's own level token wins
// unless the status code escalates it (5xx to Error, 4xx to Warn).
func (p *Uvicorn) Parse(line string) (monitor.LogEntry, bool) {
	m := uvicornPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return monitor.LogEntry{}, false
	}

	level, client, method, path, statusStr := m[1], m[2], m[3], m[4], m[5]
	status, _ := strconv.Atoi(statusStr)

	sev := monitor.ParseSeverity(level)
	if sev <= monitor.SeverityInfo {
		if s := severityFromStatus(status); s > sev {
			sev = s
		}
	}

	return monitor.LogEntry{
		Severity: sev,
		Message:  fmt.Sprintf("%s %s → %d", method, path, status),
		Raw:      line,
		Fields: map[string]string{
			"method": method,
			"path":   path,
			"status": statusStr,
			"client": client,
		},
	}, true
}
