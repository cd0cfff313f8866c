package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lookuply/infrastructure/internal/monitor"
)

// nginxAccessPattern matches the request portion of combined-format access
// lines:
//
//	127.0.0.1 - - [10/Dec/2025:10:30:45 +0000] "GET /api/chat HTTP/1.1" 200 ...
var nginxAccessPattern = regexp.MustCompile(`"(\w+) (\S+) HTTP/[\d.]+" (\d{3})`)

// NginxAccess parses nginx access logs. The client address is never carried
// into the entry; only method, path, and status survive.
type NginxAccess struct{}

func (p *NginxAccess) ID() string { return IDNginxAccess }

func (p *NginxAccess) Parse(line string) (monitor.LogEntry, bool) {
	m := nginxAccessPattern.FindStringSubmatch(line)
	if m == nil {
		return monitor.LogEntry{}, false
	}

	method, path := m[1], m[2]
	status, _ := strconv.Atoi(m[3])

	return monitor.LogEntry{
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

// nginxErrorPattern matches error-log lines like:
//
//	2025/12/10 10:30:45 [error] 123#123: *456 connect() failed ...
var nginxErrorPattern = regexp.MustCompile(`^(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}) \[(\w+)\] .+?: (.+)`)

// NginxError parses nginx error logs, taking severity from the bracketed
// level token.
type NginxError struct{}

func (p *NginxError) ID() string { return IDNginxError }

func (p *NginxError) Parse(line string) (monitor.LogEntry, bool) {
	m := nginxErrorPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return monitor.LogEntry{}, false
	}

	ts, err := time.ParseInLocation("2006/01/02 15:04:05", m[1], time.Local)
	if err != nil {
		return monitor.LogEntry{}, false
	}

	return monitor.LogEntry{
		Time:     ts,
		Severity: monitor.ParseSeverity(m[2]),
		Message:  m[3],
		Raw:      line,
	}, true
}
