package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		token string
		want  Severity
	}{
		{"INFO", SeverityInfo},
		{"info", SeverityInfo},
		{"DEBUG", SeverityDebug},
		{"TRACE", SeverityDebug},
		{"WARN", SeverityWarn},
		{"WARNING", SeverityWarn},
		{"ERROR", SeverityError},
		{"CRITICAL", SeverityError},
		{"FATAL", SeverityError},
		{"emerg", SeverityError},
		{" error ", SeverityError},
		{"notice", SeverityInfo},
		{"", SeverityInfo},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSeverity(tt.token))
		})
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "DEBUG", SeverityDebug.String())
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "WARN", SeverityWarn.String())
	assert.Equal(t, "ERROR", SeverityError.String())
}

func TestSourceHealthString(t *testing.T) {
	assert.Equal(t, "active", HealthActive.String())
	assert.Equal(t, "unavailable", HealthUnavailable.String())
	assert.Equal(t, "retrying", HealthRetrying.String())
}
