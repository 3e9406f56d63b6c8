// Package dashboard is the interactive TUI: a fleet-wide service table with a
// per-service detail view, driven by polling cycles from the engine.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/svcdash/svcdash/internal/config"
	"github.com/svcdash/svcdash/internal/logger"
	"github.com/svcdash/svcdash/internal/poller"
	"github.com/svcdash/svcdash/internal/resolver"
)

// flashDuration is how long footer notices stay visible.
const flashDuration = 4 * time.Second

// Model is the Bubble Tea model for the service dashboard.
type Model struct {
	engine *poller.Engine
	cfg    *config.Config
	log    logger.Logger

	// rows is the visible row set; replaced wholesale when a cycle
	// completes, never mixed with a cycle in flight.
	rows []poller.ServiceStatus

	// Streaming cycle state
	pending     map[string][]poller.ServiceStatus
	cycle       <-chan poller.HostRows
	cancelCycle context.CancelFunc
	collecting  bool
	lastUpdate  time.Time

	table table.Model
	spin  spinner.Model

	viewMode ViewMode
	detail   *detailState
	confirm  *confirmState

	showHelp bool
	quitting bool
	width    int
	height   int

	flashMsg   string
	flashSetAt time.Time
}

// tickMsg signals a periodic auto-refresh.
type tickMsg time.Time

// cycleStartedMsg carries the streaming channel of a freshly started cycle.
type cycleStartedMsg struct {
	ch     <-chan poller.HostRows
	cancel context.CancelFunc
}

// cycleBatchMsg carries one host's batch, or channel close when ok is false.
type cycleBatchMsg struct {
	batch poller.HostRows
	ok    bool
}

// detailStartedMsg carries the streaming channel of a detail fetch.
type detailStartedMsg struct {
	target poller.Target
	ch     <-chan poller.DetailResult
	cancel context.CancelFunc
}

// detailBatchMsg carries one detail pane result, or close when ok is false.
type detailBatchMsg struct {
	res poller.DetailResult
	ok  bool
}

// actionDoneMsg reports the outcome of a stop/restart.
type actionDoneMsg struct {
	verb string
	unit string
	host string
	err  error
}

// flashClearMsg expires a footer notice.
type flashClearMsg time.Time

// NewModel creates the dashboard model over an engine.
func NewModel(engine *poller.Engine, cfg *config.Config, log logger.Logger) Model {
	if log == nil {
		log = logger.Noop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	tbl := table.New(
		table.WithColumns(overviewColumns(80)),
		table.WithFocused(true),
	)
	tblStyles := table.DefaultStyles()
	tblStyles.Header = tblStyles.Header.
		Foreground(ColorTextPrimary).
		BorderForeground(ColorBorder).
		Bold(true)
	tblStyles.Selected = tblStyles.Selected.
		Foreground(ColorTextPrimary).
		Background(ColorSurfaceBg).
		Bold(true)
	tbl.SetStyles(tblStyles)

	return Model{
		engine:  engine,
		cfg:     cfg,
		log:     log,
		pending: make(map[string][]poller.ServiceStatus),
		table:   tbl,
		spin:    sp,
	}
}

// Init starts the refresh timer and kicks off the first cycle.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.startCycleCmd(false),
		m.spin.Tick,
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		// Unhandled keys drive the focused component.
		var cmd2 tea.Cmd
		if m.viewMode == ViewDetail && m.detail != nil {
			m.detail.viewport, cmd2 = m.detail.viewport.Update(msg)
		} else {
			m.table, cmd2 = m.table.Update(msg)
		}
		return m, cmd2

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tickMsg:
		cmds := []tea.Cmd{m.tickCmd()}
		if !m.collecting {
			cmds = append(cmds, m.startCycleCmd(false))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case cycleStartedMsg:
		if m.collecting {
			// A cycle is already streaming; drop the duplicate.
			msg.cancel()
			return m, nil
		}
		m.collecting = true
		m.cycle = msg.ch
		m.cancelCycle = msg.cancel
		m.pending = make(map[string][]poller.ServiceStatus)
		return m, listenCycle(msg.ch)

	case cycleBatchMsg:
		if !msg.ok {
			m.finishCycle()
			return m, nil
		}
		m.pending[msg.batch.Host] = msg.batch.Rows
		return m, listenCycle(m.cycle)

	case detailStartedMsg:
		if m.detail == nil || m.detail.ch != nil {
			msg.cancel()
			return m, nil
		}
		m.detail.ch = msg.ch
		m.detail.cancel = msg.cancel
		return m, listenDetail(msg.ch)

	case detailBatchMsg:
		if m.detail == nil {
			return m, nil
		}
		if !msg.ok {
			m.detail.ch = nil
			return m, nil
		}
		m.detail.apply(msg.res)
		m.refreshDetailContent()
		return m, listenDetail(m.detail.ch)

	case actionDoneMsg:
		if msg.err != nil {
			m.log.Error("%s %s on %s: %v", msg.verb, msg.unit, msg.host, msg.err)
			m.flash(msg.verb + " " + msg.unit + " failed: " + msg.err.Error())
			return m, m.flashClearCmd()
		}
		m.flash(msg.verb + " " + msg.unit + " on " + msg.host + ": ok")
		cmds := []tea.Cmd{m.flashClearCmd()}
		if !m.collecting {
			cmds = append(cmds, m.startCycleCmd(false))
		}
		return m, tea.Batch(cmds...)

	case flashClearMsg:
		if time.Since(m.flashSetAt) >= flashDuration {
			m.flashMsg = ""
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var base string
	if m.viewMode == ViewDetail && m.detail != nil {
		base = m.renderDetailView()
	} else {
		base = m.renderOverview()
	}

	if m.confirm != nil {
		return m.renderConfirmOverlay(base)
	}
	if m.showHelp {
		return m.renderHelpOverlay(base)
	}
	return base
}

// Close releases every SSH session. Called after the program exits.
func (m Model) Close() {
	if m.cancelCycle != nil {
		m.cancelCycle()
	}
	if m.detail != nil && m.detail.cancel != nil {
		m.detail.cancel()
	}
	m.engine.Close()
}

// tickCmd arms the auto-refresh timer.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// startCycleCmd starts a polling cycle and hands its channel to Update.
// The cycle deadline scales with fleet size so one slow host can't stall the
// whole cycle forever.
func (m Model) startCycleCmd(reconnect bool) tea.Cmd {
	engine := m.engine
	deadline := m.cfg.Timeout * time.Duration(len(engine.Hosts())+1)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deadline)
		return cycleStartedMsg{ch: engine.Refresh(ctx, reconnect), cancel: cancel}
	}
}

// refreshCmd is the manual-refresh entry point: a reconnect cycle, unless one
// is already streaming.
func (m *Model) refreshCmd(reconnect bool) tea.Cmd {
	if m.collecting {
		return nil
	}
	return m.startCycleCmd(reconnect)
}

// listenCycle waits for the next host batch on a cycle channel.
func listenCycle(ch <-chan poller.HostRows) tea.Cmd {
	return func() tea.Msg {
		batch, ok := <-ch
		return cycleBatchMsg{batch: batch, ok: ok}
	}
}

// listenDetail waits for the next pane result on a detail channel.
func listenDetail(ch <-chan poller.DetailResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-ch
		return detailBatchMsg{res: res, ok: ok}
	}
}

// finishCycle swaps in the completed cycle's rows.
func (m *Model) finishCycle() {
	if m.cancelCycle != nil {
		m.cancelCycle()
		m.cancelCycle = nil
	}
	m.cycle = nil
	m.collecting = false
	m.lastUpdate = time.Now()

	// Flatten batches in inventory order so the table is stable across
	// cycles regardless of which host answered first.
	var rows []poller.ServiceStatus
	for _, host := range m.engine.Hosts() {
		rows = append(rows, m.pending[host.Address]...)
	}
	m.rows = rows
	m.pending = make(map[string][]poller.ServiceStatus)
	m.syncTable()
}

// syncTable rebuilds the table rows from the current row set, preserving the
// cursor position where possible.
func (m *Model) syncTable() {
	cursor := m.table.Cursor()
	tableRows := make([]table.Row, len(m.rows))
	for i, row := range m.rows {
		tableRows[i] = table.Row{row.Unit, row.Host, row.Group, StatusCell(row.Active, row.Err)}
	}
	m.table.SetRows(tableRows)
	if cursor >= len(tableRows) {
		cursor = len(tableRows) - 1
	}
	if cursor >= 0 {
		m.table.SetCursor(cursor)
	}
}

// selectedRow returns the row under the cursor.
func (m *Model) selectedRow() (poller.ServiceStatus, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return poller.ServiceStatus{}, false
	}
	return m.rows[idx], true
}

// targetFor builds the engine target for a row.
func targetFor(row poller.ServiceStatus) poller.Target {
	return poller.Target{
		Host:     row.Host,
		Instance: resolver.Instance{Unit: row.Unit, Spec: row.Spec},
	}
}

// flash posts a short-lived footer notice.
func (m *Model) flash(msg string) {
	m.flashMsg = msg
	m.flashSetAt = time.Now()
}

func (m Model) flashClearCmd() tea.Cmd {
	return tea.Tick(flashDuration, func(t time.Time) tea.Msg {
		return flashClearMsg(t)
	})
}

// resize recomputes component dimensions after a terminal size change.
func (m *Model) resize() {
	headerHeight := 2
	footerHeight := 2

	m.table.SetColumns(overviewColumns(m.width))
	tableHeight := m.height - headerHeight - footerHeight - 1
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)

	if m.detail != nil {
		m.detail.resize(m.width, m.height)
		m.refreshDetailContent()
	}
}

// overviewColumns sizes the table columns for the terminal width.
func overviewColumns(width int) []table.Column {
	if width < 60 {
		width = 60
	}
	// Fixed status column, the rest split between service, host, and group.
	statusW := 12
	rest := width - statusW - 8
	serviceW := rest * 4 / 10
	hostW := rest * 4 / 10
	groupW := rest - serviceW - hostW

	return []table.Column{
		{Title: "Service", Width: serviceW},
		{Title: "Host", Width: hostW},
		{Title: "Group", Width: groupW},
		{Title: "Status", Width: statusW},
	}
}
