// Package poller connects to the fleet, resolves service instances, and polls
// their status. The Engine drives full refresh cycles and streams per-host
// results; the Backend knows how to run the individual remote operations.
package poller

import (
	"github.com/svcdash/svcdash/internal/config"
	"github.com/svcdash/svcdash/internal/resolver"
)

// ServiceStatus is one row of the dashboard: a resolved service instance on a
// host, with the outcome of its last status check.
type ServiceStatus struct {
	Unit   string
	Host   string
	Group  string
	Active bool
	Output string
	// Err is non-empty when the check itself failed (connect, discovery, or
	// exec error), as opposed to the unit merely being inactive.
	Err string
	// Spec is the config entry this row resolved from; it drives the detail
	// view (files, commands) and unit actions.
	Spec config.ServiceSpec
}

// HostRows is one host's complete batch of rows for a cycle.
type HostRows struct {
	Host string
	Rows []ServiceStatus
}

// DetailKind identifies which pane of the detail view a result belongs to.
type DetailKind int

const (
	DetailJournal DetailKind = iota
	DetailFile
	DetailCommand
)

// DetailResult is the content of one detail pane, delivered as it completes.
type DetailResult struct {
	Kind    DetailKind
	Label   string
	Content string
	Err     error
}

// Target identifies the service instance a detail fetch or unit action
// operates on.
type Target struct {
	Host     string
	Instance resolver.Instance
}
