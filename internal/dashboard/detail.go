package dashboard

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/svcdash/svcdash/internal/poller"
)

// detailTab is one pane of the detail view: the journal, a watched file, or a
// configured command.
type detailTab struct {
	kind    poller.DetailKind
	label   string
	content string
	err     error
	loaded  bool
}

// detailState tracks the open detail view. Each tab fills in independently as
// its result streams back.
type detailState struct {
	target poller.Target
	row    poller.ServiceStatus
	tabs   []detailTab
	active int

	ch     <-chan poller.DetailResult
	cancel context.CancelFunc

	viewport viewport.Model
	ready    bool
}

// openDetail opens the detail view for the selected row and starts fetching
// its panes.
func (m *Model) openDetail() tea.Cmd {
	row, ok := m.selectedRow()
	if !ok {
		return nil
	}

	target := targetFor(row)
	tabs := []detailTab{{kind: poller.DetailJournal, label: "journal"}}
	for _, file := range row.Spec.Files {
		tabs = append(tabs, detailTab{kind: poller.DetailFile, label: filepath.Base(file)})
	}
	for _, command := range row.Spec.Commands {
		label := "command"
		if fields := strings.Fields(command); len(fields) > 0 {
			label = fields[0]
		}
		tabs = append(tabs, detailTab{kind: poller.DetailCommand, label: label})
	}

	m.detail = &detailState{target: target, row: row, tabs: tabs}
	m.detail.resize(m.width, m.height)
	m.viewMode = ViewDetail
	m.refreshDetailContent()

	engine := m.engine
	deadline := m.cfg.Timeout + 2*time.Second
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deadline)
		return detailStartedMsg{target: target, ch: engine.FetchDetail(ctx, target), cancel: cancel}
	}
}

// closeDetail tears down the detail view and returns to the overview.
func (m *Model) closeDetail() {
	if m.detail != nil && m.detail.cancel != nil {
		m.detail.cancel()
	}
	m.detail = nil
	m.viewMode = ViewOverview
}

// cycleTab moves tab focus left or right.
func (m *Model) cycleTab(delta int) {
	d := m.detail
	if d == nil || len(d.tabs) == 0 {
		return
	}
	d.active = (d.active + delta + len(d.tabs)) % len(d.tabs)
	m.refreshDetailContent()
}

// apply fills in the tab a streamed result belongs to. Results match tabs by
// kind and label, so a file and a command sharing a name can't cross-fill;
// duplicate labels fill the first still-loading tab.
func (d *detailState) apply(res poller.DetailResult) {
	for i := range d.tabs {
		if d.tabs[i].kind == res.Kind && d.tabs[i].label == res.Label && !d.tabs[i].loaded {
			d.tabs[i].content = res.Content
			d.tabs[i].err = res.Err
			d.tabs[i].loaded = true
			return
		}
	}
}

func (d *detailState) resize(width, height int) {
	headerHeight := 4
	footerHeight := 2
	// Leave room for the box border around the viewport.
	vpHeight := height - headerHeight - footerHeight - 2
	if vpHeight < 3 {
		vpHeight = 3
	}
	vpWidth := width - 4
	if vpWidth < 20 {
		vpWidth = 20
	}

	if !d.ready {
		d.viewport = viewport.New(vpWidth, vpHeight)
		d.ready = true
	} else {
		d.viewport.Width = vpWidth
		d.viewport.Height = vpHeight
	}
}

// refreshDetailContent pushes the active tab's content into the viewport.
func (m *Model) refreshDetailContent() {
	d := m.detail
	if d == nil || !d.ready || len(d.tabs) == 0 {
		return
	}

	tab := d.tabs[d.active]
	var content string
	switch {
	case !tab.loaded:
		content = LabelStyle.Render(m.spin.View() + " loading " + tab.label + "...")
	case tab.err != nil:
		content = StatusErrorStyle.Render(GlyphError+" "+tab.err.Error()) + "\n\n" + tab.content
	case strings.TrimSpace(tab.content) == "":
		content = LabelStyle.Render("(empty)")
	default:
		content = tab.content
	}
	d.viewport.SetContent(content)
}

// renderDetailView renders the tabbed detail screen.
func (m Model) renderDetailView() string {
	d := m.detail
	var b strings.Builder

	// Header: unit, host, and current state.
	title := TitleStyle.Render(d.row.Unit)
	sub := LabelStyle.Render(fmt.Sprintf("  %s (%s)", d.row.Host, d.row.Group))
	b.WriteString(HeaderStyle.Render(title + sub + "  " + m.renderStatusBadge(d.row)))
	b.WriteString("\n")

	// Tab bar
	var tabBar []string
	for i, tab := range d.tabs {
		label := tab.label
		if !tab.loaded {
			label += " " + m.spin.View()
		}
		if i == d.active {
			tabBar = append(tabBar, TabActiveStyle.Render(label))
		} else {
			tabBar = append(tabBar, TabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabBar, " "))
	b.WriteString("\n")

	if d.ready {
		b.WriteString(DetailBoxStyle.Render(d.viewport.View()))
	}
	b.WriteString("\n")

	hints := []string{"tab switch pane", "↑↓ scroll", "esc back", "q quit"}
	footer := FooterStyle.Render(strings.Join(hints, " | "))
	if m.flashMsg != "" {
		footer += FlashStyle.Render(m.flashMsg)
	}
	b.WriteString(footer)

	return b.String()
}

// renderStatusBadge renders the colored status glyph for a row.
func (m Model) renderStatusBadge(row poller.ServiceStatus) string {
	switch {
	case row.Err != "":
		return StatusErrorStyle.Render(GlyphError + " error")
	case row.Active:
		return StatusActiveStyle.Render(GlyphActive + " active")
	default:
		return StatusInactiveStyle.Render(GlyphInactive + " inactive")
	}
}
