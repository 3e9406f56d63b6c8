package dashboard

import (
	"fmt"
	"strings"
	"time"
)

// timeSince is swapped in tests for deterministic header output.
var timeSince = time.Since

// renderOverview renders the fleet-wide service table.
func (m Model) renderOverview() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar with fleet summary.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("svcdash")

	active, errored := 0, 0
	for _, row := range m.rows {
		switch {
		case row.Err != "":
			errored++
		case row.Active:
			active++
		}
	}

	stats := fmt.Sprintf(" | %d hosts | %d services | %d active",
		len(m.engine.Hosts()), len(m.rows), active)
	if errored > 0 {
		stats += StatusErrorStyle.Render(fmt.Sprintf(" | %d errors", errored))
	}

	right := ""
	if m.collecting {
		right = "  " + m.spin.View() + " polling"
	} else if !m.lastUpdate.IsZero() {
		right = fmt.Sprintf("  updated %s", m.sinceUpdate())
	}

	return HeaderStyle.Render(title + LabelStyle.Render(stats) + LabelStyle.Render(right))
}

// sinceUpdate formats the age of the visible row set.
func (m Model) sinceUpdate() string {
	secs := int(timeSince(m.lastUpdate).Seconds())
	switch {
	case secs <= 1:
		return "just now"
	default:
		return fmt.Sprintf("%ds ago", secs)
	}
}

// renderFooter renders the keyboard hints and any pending notice.
func (m Model) renderFooter() string {
	hints := []string{
		"enter detail",
		"r refresh",
		"s stop",
		"t restart",
		"? help",
		"q quit",
	}

	footer := FooterStyle.Render(strings.Join(hints, " | "))
	if m.flashMsg != "" {
		footer += FlashStyle.Render(m.flashMsg)
	}
	return footer
}
