// Package parsers implements the per-format log line parsers for the
// monitoring dashboard. Each parser turns one raw line into a structured
// monitor.LogEntry; a parser is bound to a source once at startup from the
// config's parser id, never sniffed from content.
package parsers

import (
	"sort"

	"github.com/lookuply/infrastructure/internal/errors"
	"github.com/lookuply/infrastructure/internal/monitor"
)

// Parser ids accepted in source config.
const (
	IDUvicorn     = "uvicorn"
	IDGin         = "gin"
	IDCelery      = "celery"
	IDCrawler     = "crawler"
	IDNginxAccess = "nginx-access"
	IDNginxError  = "nginx-error"
	IDPlain       = "plain"
)

// ForID resolves a parser id from source config to an implementation.
func ForID(id string) (monitor.Parser, error) {
	switch id {
	case IDUvicorn:
		return &Uvicorn{}, nil
	case IDGin:
		return &Gin{}, nil
	case IDCelery:
		return &Celery{}, nil
	case IDCrawler:
		return &Crawler{}, nil
	case IDNginxAccess:
		return &NginxAccess{}, nil
	case IDNginxError:
		return &NginxError{}, nil
	case IDPlain:
		return &Plain{}, nil
	default:
		return nil, errors.New(errors.ErrConfig,
			"unknown parser id "+id,
			"known parsers: "+knownList())
	}
}

// Known returns all parser ids, sorted.
func Known() []string {
	ids := []string{
		IDUvicorn, IDGin, IDCelery, IDCrawler,
		IDNginxAccess, IDNginxError, IDPlain,
	}
	sort.Strings(ids)
	return ids
}

func knownList() string {
	out := ""
	for i, id := range Known() {
		if i > 0 {
			out += ", "
		}
		out += id
	}
	return out
}

// severityFromStatus maps an HTTP status code to a severity: 5xx is an
// error, 4xx a warning, everything else informational.
func severityFromStatus(status int) monitor.Severity {
	switch {
	case status >= 500:
		return monitor.SeverityError
	case status >= 400:
		return monitor.SeverityWarn
	default:
		return monitor.SeverityInfo
	}
}
