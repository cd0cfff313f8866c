package monitor

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyClearErrors = "c"
	KeyPauseTail   = "p"
)

// HandleKeyMsg processes keyboard input.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyClearErrors:
		m.agg.ClearErrors()
		m.snapshot = m.agg.Snapshot()
		return true, nil

	case KeyPauseTail:
		m.tailPaused = !m.tailPaused
		if !m.tailPaused {
			m.frozenTail = nil
		} else {
			m.frozenTail = m.snapshot.Tail
		}
		return true, nil
	}

	return false, nil
}
