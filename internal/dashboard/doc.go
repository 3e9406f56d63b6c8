// Package dashboard implements the interactive TUI for fleet-wide service
// monitoring.
//
// The overview screen is a table of every resolved service instance across
// the fleet (Service | Host | Group | Status), refreshed on a timer. Opening
// a service shows a tabbed detail view with its journal tail, any configured
// files, and the output of any configured commands.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm
// Architecture (Model-Update-View pattern):
//
//   - Model: Holds dashboard state (rows, table, open detail, prompts)
//   - Update: Processes messages (keystrokes, ticks, streamed poll results)
//   - View: Renders the current state to a string for display
//
// # Message Flow
//
// Polling is cycle-based and streaming:
//
//  1. tickMsg fires at the configured interval (default 30s)
//  2. startCycleCmd starts an engine Refresh and yields cycleStartedMsg
//  3. cycleBatchMsg arrives per host as each finishes; batches accumulate in
//     a pending buffer while the previous row set stays on screen
//  4. When the cycle channel closes, the row set is swapped wholesale, so
//     rows from different cycles never mix
//
// The detail view follows the same shape: FetchDetail streams one result per
// pane, and each tab leaves its loading state independently.
//
// # Unit Actions
//
// Stop and restart are armed behind a y/n confirm overlay. The outcome is
// flashed in the footer and a poll-only refresh picks up the new state.
//
// # Keyboard Shortcuts
//
// Navigation and control is handled via keybindings defined in keybindings.go:
//
//	q, Ctrl+C   - Quit
//	r           - Refresh (reconnects hosts)
//	↑/↓         - Select service
//	Enter       - Open detail view
//	Tab         - Switch detail pane
//	s / t       - Stop / restart selected service
//	Esc         - Back / close
//	?           - Toggle help overlay
package dashboard
