package parsers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lookuply/infrastructure/internal/monitor"
)

// discoveredPattern matches link-discovery progress lines like:
//
//	Discovered 31 links from https://example.com: 7 new, 24 duplicates
var discoveredPattern = regexp.MustCompile(`Discovered (\d+) links from (.+): (\d+) new, (\d+) duplicates`)

// maxURLDisplay truncates long source URLs in the rendered message.
const maxURLDisplay = 50

// Crawler parses crawler node logs. The format is free-form, so severity
// comes from keyword classification and structure only from known progress
// patterns.
type Crawler struct{}

func (p *Crawler) ID() string { return IDCrawler }

func (p *Crawler) Parse(line string) (monitor.LogEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return monitor.LogEntry{}, false
	}

	lower := strings.ToLower(line)
	sev := monitor.SeverityInfo
	switch {
	case strings.Contains(lower, "error"),
		strings.Contains(lower, "exception"),
		strings.Contains(lower, "failed"),
		strings.Contains(lower, "traceback"):
		sev = monitor.SeverityError
	case strings.Contains(lower, "warn"):
		sev = monitor.SeverityWarn
	}

	entry := monitor.LogEntry{
		Severity: sev,
		Message:  line,
		Raw:      line,
	}

	if m := discoveredPattern.FindStringSubmatch(line); m != nil {
		url := m[2]
		display := url
		if len(display) > maxURLDisplay {
			display = display[:maxURLDisplay] + "..."
		}
		entry.Message = fmt.Sprintf("Discovered %s new links from %s", m[3], display)
		entry.Fields = map[string]string{
			"total_links":     m[1],
			"new_links":       m[3],
			"duplicate_links": m[4],
			"source_url":      url,
		}
	}

	return entry, true
}
