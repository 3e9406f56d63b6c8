package dashboard

import tea "github.com/charmbracelet/bubbletea"

// ViewMode defines the current display mode of the dashboard.
type ViewMode int

const (
	ViewOverview ViewMode = iota
	ViewDetail
)

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyStop       = "s"
	KeyRestart    = "t"
	KeyOpenDetail = "enter"
	KeyBack       = "esc"
	KeyToggleHelp = "?"
	KeyNextTab    = "tab"
	KeyPrevTab    = "shift+tab"
	KeyConfirmYes = "y"
	KeyConfirmNo  = "n"
)

// HandleKeyMsg processes keyboard input. Returns true if the key was handled;
// unhandled keys fall through to the focused bubbles component (table or
// viewport scrolling).
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// A pending confirm captures everything until answered.
	if m.confirm != nil {
		switch key {
		case KeyConfirmYes:
			cmd := m.runConfirmedAction()
			m.confirm = nil
			return true, cmd
		case KeyConfirmNo, KeyBack, KeyQuit:
			m.flash("cancelled")
			m.confirm = nil
			return true, m.flashClearCmd()
		}
		return true, nil
	}

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key == KeyBack {
		m.showHelp = false
		return true, nil
	}

	if m.viewMode == ViewDetail {
		switch key {
		case KeyBack:
			m.closeDetail()
			return true, nil
		case KeyNextTab:
			m.cycleTab(1)
			return true, nil
		case KeyPrevTab:
			m.cycleTab(-1)
			return true, nil
		}
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		return true, m.refreshCmd(true)

	case KeyOpenDetail:
		if m.viewMode == ViewOverview {
			return true, m.openDetail()
		}
		return true, nil

	case KeyStop:
		return true, m.requestAction(actionStop)

	case KeyRestart:
		return true, m.requestAction(actionRestart)
	}

	return false, nil
}
