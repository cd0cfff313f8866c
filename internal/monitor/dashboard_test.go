package monitor

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookuply/infrastructure/internal/config"
	"github.com/lookuply/infrastructure/internal/errors"
	"github.com/lookuply/infrastructure/internal/logger"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Sources = map[string]config.Source{
		"api": {Kind: config.KindStream, Location: "lookuply-api", Parser: "test"},
	}
	cfg.Coordinator.URL = "http://127.0.0.1:1"
	return cfg
}

func testParserFor(id string) (Parser, error) {
	if id == "test" {
		return upperParser{}, nil
	}
	return nil, errors.New(errors.ErrConfig, "unknown parser id "+id, "")
}

func TestNewDashboardBuildsSources(t *testing.T) {
	d, err := NewDashboard(testConfig(), testParserFor, logger.Noop())
	require.NoError(t, err)
	require.Len(t, d.sources, 1)
	assert.Equal(t, "api", d.sources[0].Name())
	assert.Equal(t, []string{"api"}, d.order)
}

func TestNewDashboardUnknownParser(t *testing.T) {
	cfg := testConfig()
	cfg.Sources["api"] = config.Source{Kind: config.KindStream, Location: "x", Parser: "nope"}

	_, err := NewDashboard(cfg, testParserFor, logger.Noop())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestNewDashboardUnknownKind(t *testing.T) {
	cfg := testConfig()
	cfg.Sources["api"] = config.Source{Kind: "socket", Location: "x", Parser: "test"}

	_, err := NewDashboard(cfg, testParserFor, logger.Noop())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestNewDashboardSkipsPollerWithoutURL(t *testing.T) {
	cfg := testConfig()
	cfg.Coordinator.URL = ""

	d, err := NewDashboard(cfg, testParserFor, logger.Noop())
	require.NoError(t, err)
	assert.Nil(t, d.poller)
}

type stubProgram struct {
	model tea.Model
	done  chan struct{}
}

func (p *stubProgram) Run() (tea.Model, error) {
	<-p.done
	return p.model, nil
}

func TestDashboardRunStopsOnQuit(t *testing.T) {
	d, err := NewDashboard(testConfig(), testParserFor, logger.Noop())
	require.NoError(t, err)

	// The stream source would spawn docker; stub it to idle.
	d.sources[0].(*StreamSource).runStream = func(ctx context.Context, onLine func(string)) error {
		<-ctx.Done()
		return ctx.Err()
	}

	stub := &stubProgram{done: make(chan struct{})}
	d.newProgram = func(m tea.Model) programRunner {
		stub.model = m
		return stub
	}

	runDone := make(chan error, 1)
	go func() { runDone <- d.Run(context.Background()) }()

	// Simulate the user quitting: the UI loop returns and Run must drain
	// every pipeline goroutine before returning.
	time.Sleep(50 * time.Millisecond)
	close(stub.done)

	select {
	case err := <-runDone:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after UI exit")
	}
}

func TestDashboardRunReturnsWhenSourceStuck(t *testing.T) {
	d, err := NewDashboard(testConfig(), testParserFor, logger.Noop())
	require.NoError(t, err)
	d.grace = 50 * time.Millisecond

	// A source that never observes cancellation must not hold up exit past
	// the grace period.
	stuck := make(chan struct{})
	d.sources[0].(*StreamSource).runStream = func(ctx context.Context, onLine func(string)) error {
		<-stuck
		return nil
	}
	defer close(stuck)

	stub := &stubProgram{done: make(chan struct{})}
	d.newProgram = func(m tea.Model) programRunner {
		stub.model = m
		return stub
	}

	runDone := make(chan error, 1)
	go func() { runDone <- d.Run(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	close(stub.done)

	select {
	case err := <-runDone:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return despite the grace period")
	}
}
