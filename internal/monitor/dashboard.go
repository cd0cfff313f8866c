package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lookuply/infrastructure/internal/config"
	"github.com/lookuply/infrastructure/internal/errors"
	"github.com/lookuply/infrastructure/internal/logger"
)

// shutdownGrace bounds how long Run waits for pipeline goroutines to drain
// after cancellation. A wedged docker subprocess must not keep the process
// alive past quit.
const shutdownGrace = 2 * time.Second

// Dashboard wires sources, the poller, the sampler, and the aggregator
// together and drives the terminal UI.
type Dashboard struct {
	cfg     *config.Config
	agg     *Aggregator
	sources []Source
	poller  *StatsPoller
	sampler *ResourceSampler
	order   []string
	log     logger.Logger
	grace   time.Duration

	// newProgram is swapped out in tests to avoid opening a real terminal.
	newProgram func(tea.Model) programRunner
}

type programRunner interface {
	Run() (tea.Model, error)
}

// NewDashboard builds the full pipeline from config. parserFor resolves a
// parser id from the config to an implementation; it reports an ErrConfig
// error for unknown ids.
func NewDashboard(cfg *config.Config, parserFor func(id string) (Parser, error), log logger.Logger) (*Dashboard, error) {
	if log == nil {
		log = logger.Noop()
	}

	agg := NewAggregator(AggregatorOptions{
		MaxErrors: cfg.Dashboard.MaxErrors,
		MaxTail:   cfg.Dashboard.MaxTail,
		Window:    cfg.Dashboard.Window,
	}, log)

	names := make([]string, 0, len(cfg.Sources))
	for name := range cfg.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	sources := make([]Source, 0, len(names))
	for _, name := range names {
		src := cfg.Sources[name]
		parser, err := parserFor(src.Parser)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"resolving parser for source "+name, "")
		}
		switch src.Kind {
		case config.KindStream:
			sources = append(sources, NewStreamSource(name, src.Location, parser, agg, log))
		case config.KindFile:
			sources = append(sources, NewFileSource(name, src.Location, src.FromStart, parser, agg, log))
		default:
			return nil, errors.New(errors.ErrConfig,
				"unknown source kind "+src.Kind+" for source "+name,
				"use \"stream\" or \"file\"")
		}
	}

	d := &Dashboard{
		cfg:     cfg,
		agg:     agg,
		sources: sources,
		sampler: NewResourceSampler(cfg.Resources.SampleInterval, cfg.Resources.Mount, agg, log),
		order:   names,
		log:     log,
		grace:   shutdownGrace,
	}
	// No coordinator URL means no AI pipeline to poll; the stats panel stays
	// in its waiting state instead of hammering a dead endpoint.
	if cfg.Coordinator.URL != "" {
		d.poller = NewStatsPoller(cfg.Coordinator.URL, cfg.Coordinator.PollInterval,
			cfg.Coordinator.StaleAfter, agg, log)
	}
	d.newProgram = func(m tea.Model) programRunner {
		return tea.NewProgram(m, tea.WithAltScreen())
	}
	return d, nil
}

// Aggregator exposes the dashboard's aggregator, mainly for tests.
func (d *Dashboard) Aggregator() *Aggregator { return d.agg }

// Run starts every pipeline goroutine and blocks in the UI loop until the
// user quits or ctx is cancelled. Pipeline goroutines are cancelled and given
// a bounded grace period to drain before Run returns.
func (d *Dashboard) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	run := func(f func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(ctx)
		}()
	}

	run(d.agg.Run)
	if d.poller != nil {
		run(d.poller.Run)
	}
	run(d.sampler.Run)
	for _, src := range d.sources {
		run(src.Run)
	}

	model := NewModel(d.agg, d.cfg.Dashboard.RenderInterval, d.order)
	prog := d.newProgram(model)

	// Cancellation from outside (SIGINT/SIGTERM) must also stop the UI loop.
	uiDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			if p, ok := prog.(*tea.Program); ok {
				p.Quit()
			}
		case <-uiDone:
		}
	}()

	_, err := prog.Run()
	close(uiDone)
	cancel()

	// Bounded grace period: a producer stuck past cancellation (a docker
	// subprocess in uninterruptible IO, say) must not block exit forever.
	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(d.grace):
		d.log.Debug("pipeline did not drain within %s, exiting anyway", d.grace)
	}

	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRender, "running dashboard UI", "")
	}
	return nil
}
