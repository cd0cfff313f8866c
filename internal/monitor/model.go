package monitor

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model for the monitoring dashboard. It owns no
// domain state of its own: every frame pulls a fresh immutable snapshot from
// the aggregator.
type Model struct {
	agg      *Aggregator
	interval time.Duration
	order    []string // source display order from config

	// workerBar renders the AI evaluation progress gradient.
	workerBar progress.Model

	snapshot   Snapshot
	width      int
	height     int
	lastUpdate time.Time
	quitting   bool

	// Tail pause state. While paused the live tail panel shows the frozen
	// entries; everything else keeps updating.
	tailPaused bool
	frozenTail []LogEntry
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// NewModel creates a dashboard model refreshing at interval. order fixes the
// panel ordering of sources; sources not listed render after it.
func NewModel(agg *Aggregator, interval time.Duration, order []string) Model {
	if interval <= 0 {
		interval = time.Second
	}
	bar := progress.New(
		progress.WithGradient(string(ColorAccent), string(ColorGraph)),
		progress.WithoutPercentage(),
	)
	bar.Width = progressBarWidth

	return Model{
		agg:       agg,
		interval:  interval,
		order:     order,
		workerBar: bar,
		snapshot:  agg.Snapshot(),
	}
}

// Init starts the tick timer.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.snapshot = m.agg.Snapshot()
		m.lastUpdate = time.Time(msg)
		return m, m.tickCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// tailEntries returns the entries for the live tail panel, honoring pause.
func (m Model) tailEntries() []LogEntry {
	if m.tailPaused {
		return m.frozenTail
	}
	return m.snapshot.Tail
}

// sourceNames returns source names in display order: config order first, then
// any unlisted sources alphabetically appended by the caller's sort.
func (m Model) sourceNames() []string {
	seen := make(map[string]bool, len(m.order))
	names := make([]string, 0, len(m.snapshot.Sources))
	for _, name := range m.order {
		if _, ok := m.snapshot.Sources[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	extra := make([]string, 0)
	for name := range m.snapshot.Sources {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// SecondsSinceUpdate returns how many seconds have passed since the last
// refresh tick.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(time.Since(m.lastUpdate).Seconds())
}
