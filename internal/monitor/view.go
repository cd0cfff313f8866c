package monitor

import (
	"fmt"
	"sort"
	"strings"
)

const (
	defaultPanelWidth = 100
	progressBarWidth  = 30
	sparklineWidth    = 40
	topPathCount      = 5
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	width := m.width
	if width <= 0 {
		width = defaultPanelWidth
	}
	if width > defaultPanelWidth+40 {
		width = defaultPanelWidth + 40
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	panels := []string{
		m.renderSourcesPanel(width),
		m.renderWorkersPanel(width),
		m.renderErrorsPanel(width),
		m.renderRequestsPanel(width),
		m.renderResourcesPanel(width),
		m.renderTailPanel(width),
	}
	for _, p := range panels {
		b.WriteString(p)
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the dashboard title bar with summary counts.
func (m Model) renderHeader() string {
	active := 0
	for _, s := range m.snapshot.Sources {
		if s.Health == HealthActive {
			active++
		}
	}

	lastUpdate := m.SecondsSinceUpdate()
	var updateText string
	switch lastUpdate {
	case 0:
		updateText = "just now"
	case 1:
		updateText = "1s ago"
	default:
		updateText = fmt.Sprintf("%ds ago", lastUpdate)
	}

	title := HeaderStyle.Render("lookuply monitor")
	stats := LabelStyle.Render(fmt.Sprintf(" %d/%d sources active | updated %s",
		active, len(m.snapshot.Sources), updateText))
	return title + stats
}

// renderSourcesPanel lists each source with its health glyph and line count.
func (m Model) renderSourcesPanel(width int) string {
	names := m.sourceNames()

	lines := []string{SectionHeader("Sources", fmt.Sprintf("%d", len(names)), width)}
	if len(names) == 0 {
		lines = append(lines, SectionContentLine(MutedStyle.Render("no sources configured"), width))
	}
	for _, name := range names {
		src := m.snapshot.Sources[name]
		detail := fmt.Sprintf("%-18s %-12s %8d lines", name, src.Health, src.Lines)
		content := HealthGlyph(src.Health) + " " + ValueStyle.Render(detail)
		if src.Health != HealthActive && src.LastError != "" {
			content += MutedStyle.Render("  " + src.LastError)
		}
		lines = append(lines, SectionContentLine(content, width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderWorkersPanel shows AI evaluation progress from the coordinator.
func (m Model) renderWorkersPanel(width int) string {
	w := m.snapshot.Workers

	value := "waiting"
	if m.snapshot.HasWorkers {
		value = fmt.Sprintf("%.1f%%", w.ProgressRatio()*100)
		if w.Stale {
			value += " stale"
		}
	}

	lines := []string{SectionHeader("AI Progress", value, width)}
	if !m.snapshot.HasWorkers {
		lines = append(lines,
			SectionContentLine(MutedStyle.Render("waiting for coordinator..."), width))
	} else {
		bar := m.workerBar.ViewAs(w.ProgressRatio())
		counts := fmt.Sprintf("  evaluated %d | pending %d | processing %d | failed %d | workers %d",
			w.Evaluated, w.Pending, w.Processing, w.Failed, w.ActiveWorkers)
		content := bar + LabelStyle.Render(counts)
		if w.Stale {
			content = bar + StaleStyle.Render(counts+"  (stale)")
		}
		lines = append(lines, SectionContentLine(content, width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderErrorsPanel shows recent error entries, newest first.
func (m Model) renderErrorsPanel(width int) string {
	errs := m.snapshot.Errors

	lines := []string{SectionHeader("Recent Errors", fmt.Sprintf("%d", len(errs)), width)}
	if len(errs) == 0 {
		lines = append(lines, SectionContentLine(MutedStyle.Render("no errors"), width))
	}
	for i := len(errs) - 1; i >= 0; i-- {
		lines = append(lines, SectionContentLine(m.renderEntry(errs[i]), width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderRequestsPanel shows per-service request counters and top endpoints
// for the current window.
func (m Model) renderRequestsPanel(width int) string {
	names := make([]string, 0, len(m.snapshot.Services))
	for name := range m.snapshot.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{SectionHeader("Requests", "window", width)}
	shown := 0
	for _, name := range names {
		svc := m.snapshot.Services[name]
		if svc.Requests == 0 && svc.Errors == 0 && svc.ParseFailures == 0 {
			continue
		}
		shown++
		row := fmt.Sprintf("%-18s %6d req  %4d err", name, svc.Requests, svc.Errors)
		if svc.ParseFailures > 0 {
			row += fmt.Sprintf("  %4d unparsed", svc.ParseFailures)
		}
		lines = append(lines, SectionContentLine(ValueStyle.Render(row), width))

		for _, pc := range topPaths(svc.Paths, topPathCount) {
			pathRow := fmt.Sprintf("    %-40s %6d", pc.path, pc.count)
			lines = append(lines, SectionContentLine(LabelStyle.Render(pathRow), width))
		}
	}
	if shown == 0 {
		lines = append(lines, SectionContentLine(MutedStyle.Render("no traffic yet"), width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderResourcesPanel shows host CPU, memory, and disk usage.
func (m Model) renderResourcesPanel(width int) string {
	r := m.snapshot.Resources

	value := fmt.Sprintf("cpu %.0f%%", r.CPUPercent)
	if r.Stale {
		value += " stale"
	}

	lines := []string{SectionHeader("Resources", value, width)}
	if r.Time.IsZero() {
		lines = append(lines, SectionContentLine(MutedStyle.Render("sampling..."), width))
	} else {
		cpuRow := LabelStyle.Render("cpu  ") + ProgressBar(progressBarWidth, r.CPUPercent) +
			ValueStyle.Render(fmt.Sprintf(" %5.1f%%  ", r.CPUPercent)) +
			RenderSparkline(m.snapshot.CPUHistory, sparklineWidth)
		memRow := LabelStyle.Render("mem  ") + ProgressBar(progressBarWidth, r.MemPercent()) +
			ValueStyle.Render(fmt.Sprintf(" %5.1f%%  %s / %s",
				r.MemPercent(), formatBytes(r.MemUsed), formatBytes(r.MemTotal)))
		diskRow := LabelStyle.Render("disk ") + ProgressBar(progressBarWidth, r.DiskPercent()) +
			ValueStyle.Render(fmt.Sprintf(" %5.1f%%  %s / %s",
				r.DiskPercent(), formatBytes(r.DiskUsed), formatBytes(r.DiskTotal)))
		lines = append(lines,
			SectionContentLine(cpuRow, width),
			SectionContentLine(memRow, width),
			SectionContentLine(diskRow, width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderTailPanel shows the interleaved live tail, newest last.
func (m Model) renderTailPanel(width int) string {
	tail := m.tailEntries()

	value := "live"
	if m.tailPaused {
		value = "paused"
	}

	lines := []string{SectionHeader("Live Tail", value, width)}
	if len(tail) == 0 {
		lines = append(lines, SectionContentLine(MutedStyle.Render("waiting for log lines..."), width))
	}
	for _, e := range tail {
		lines = append(lines, SectionContentLine(m.renderEntry(e), width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderEntry formats one log entry row.
func (m Model) renderEntry(e LogEntry) string {
	ts := MutedStyle.Render(e.Time.Format("15:04:05"))
	src := LabelStyle.Render(fmt.Sprintf("%-12s", e.Source))
	level := SeverityStyle(e.Severity).Render(fmt.Sprintf("%-5s", e.Severity))
	return ts + " " + src + " " + level + " " + ValueStyle.Render(e.Message)
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"c clear errors",
		"p pause tail",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

type pathCount struct {
	path  string
	count int64
}

// topPaths returns the n most-hit paths, ties broken alphabetically.
func topPaths(paths map[string]int64, n int) []pathCount {
	out := make([]pathCount, 0, len(paths))
	for p, c := range paths {
		out = append(out, pathCount{path: p, count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].path < out[j].path
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}
