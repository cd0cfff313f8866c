package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorBorder = lipgloss.Color("#2A2A4A")

	// Semantic colors for metrics
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	// Accent colors
	ColorAccent = lipgloss.Color("#FF2E97")
	ColorGraph  = lipgloss.Color("#00FFFF")
)

// Thresholds for metric severity levels
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	WarnTextStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StaleStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Health indicator characters
const (
	GlyphActive      = "◉"
	GlyphUnavailable = "◌"
	GlyphRetrying    = "◔"
)

// HealthGlyph returns the styled indicator for a source health state.
func HealthGlyph(h SourceHealth) string {
	switch h {
	case HealthActive:
		return lipgloss.NewStyle().Foreground(ColorHealthy).Render(GlyphActive)
	case HealthRetrying:
		return lipgloss.NewStyle().Foreground(ColorWarning).Render(GlyphRetrying)
	default:
		return lipgloss.NewStyle().Foreground(ColorCritical).Render(GlyphUnavailable)
	}
}

// SeverityStyle returns the text style for a log severity.
func SeverityStyle(s Severity) lipgloss.Style {
	switch s {
	case SeverityError:
		return ErrorTextStyle
	case SeverityWarn:
		return WarnTextStyle
	case SeverityDebug:
		return MutedStyle
	default:
		return LabelStyle
	}
}

// MetricColor returns the color for a percentage-based metric.
// Green below 70%, amber 70-90%, red above 90%.
func MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// ProgressBar renders a fixed-width progress bar colored by threshold.
func ProgressBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString("▰")
		} else {
			b.WriteString("▱")
		}
	}
	return lipgloss.NewStyle().Foreground(MetricColor(percent)).Render(b.String())
}

// SectionHeader renders a panel header with the title on the left and a value
// on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat("─", fillWidth)+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a panel.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders one panel content line padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	contentWidth := lipgloss.Width(content)
	innerWidth := width - 4
	if contentWidth > innerWidth {
		content = truncateANSI(content, innerWidth)
		contentWidth = lipgloss.Width(content)
	}

	padding := innerWidth - contentWidth
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

// truncateANSI shortens styled content to at most width display cells.
func truncateANSI(content string, width int) string {
	if width < 1 {
		return ""
	}
	// Cheap path for unstyled content.
	if !strings.Contains(content, "\x1b") {
		runes := []rune(content)
		if len(runes) <= width {
			return content
		}
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	// Styled content gets re-rendered into a constrained style.
	return lipgloss.NewStyle().MaxWidth(width).Render(content)
}
