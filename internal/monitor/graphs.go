package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are block characters for 8-level vertical resolution
// (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline renders percentage samples as a single-row block sparkline.
// Samples are plotted against a fixed 0-100 scale so successive frames stay
// visually comparable. When there are fewer samples than width the graph
// fills from the right.
func RenderSparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	var b strings.Builder
	for i := 0; i < width-len(data); i++ {
		b.WriteRune(' ')
	}

	styled := make([]string, 0, len(data))
	for _, v := range data {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		idx := int(v / 100 * float64(len(sparklineBlocks)))
		if idx >= len(sparklineBlocks) {
			idx = len(sparklineBlocks) - 1
		}
		ch := string(sparklineBlocks[idx])
		styled = append(styled, lipgloss.NewStyle().Foreground(MetricColor(v)).Render(ch))
	}

	return b.String() + strings.Join(styled, "")
}
