package dashboard

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/svcdash/svcdash/internal/poller"
	"github.com/svcdash/svcdash/internal/resolver"
)

// actionKind is a destructive unit operation behind a confirm prompt.
type actionKind int

const (
	actionStop actionKind = iota
	actionRestart
)

func (a actionKind) verb() string {
	if a == actionStop {
		return "stop"
	}
	return "restart"
}

// confirmState is the pending y/n prompt.
type confirmState struct {
	action actionKind
	target poller.Target
}

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarn).
			Background(ColorSurfaceBg).
			Padding(1, 2)

	confirmTitleStyle = lipgloss.NewStyle().
				Foreground(ColorWarn).
				Bold(true)
)

// requestAction arms a confirm prompt for the selected row. In detail view
// the action applies to the open service.
func (m *Model) requestAction(action actionKind) tea.Cmd {
	var target poller.Target
	if m.viewMode == ViewDetail && m.detail != nil {
		target = m.detail.target
	} else {
		row, ok := m.selectedRow()
		if !ok {
			return nil
		}
		target = targetFor(row)
	}

	// Glob rows that never resolved (connect failures) have nothing to act on.
	if resolver.IsGlob(target.Instance.Unit) {
		m.flash("can't " + action.verb() + " an unresolved pattern")
		return m.flashClearCmd()
	}

	m.confirm = &confirmState{action: action, target: target}
	return nil
}

// runConfirmedAction executes the armed action.
func (m *Model) runConfirmedAction() tea.Cmd {
	c := m.confirm
	if c == nil {
		return nil
	}

	engine := m.engine
	timeout := m.cfg.Timeout
	verb := c.action.verb()
	target := c.target
	action := c.action

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout+2*time.Second)
		defer cancel()

		var err error
		if action == actionStop {
			err = engine.StopUnit(ctx, target)
		} else {
			err = engine.RestartUnit(ctx, target)
		}
		return actionDoneMsg{verb: verb, unit: target.Instance.Unit, host: target.Host, err: err}
	}
}

// renderConfirmOverlay renders the y/n prompt centered over the base view.
func (m Model) renderConfirmOverlay(_ string) string {
	c := m.confirm
	question := fmt.Sprintf("%s %s on %s?",
		c.action.verb(), c.target.Instance.Unit, c.target.Host)

	content := confirmTitleStyle.Render(question) + "\n\n" +
		LabelStyle.Render("y confirm  ·  n cancel")

	box := confirmBoxStyle.Render(content)
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}
