package poller

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/svcdash/svcdash/internal/config"
	"github.com/svcdash/svcdash/internal/inventory"
	"github.com/svcdash/svcdash/internal/logger"
	"github.com/svcdash/svcdash/internal/resolver"
)

// maxUnitChecks caps concurrent status checks per host, so a host with many
// matched units doesn't open a pile of sessions at once.
const maxUnitChecks = 4

// Engine orchestrates polling cycles across the fleet.
type Engine struct {
	cfg     *config.Config
	hosts   []inventory.Host
	backend *Backend
	res     *resolver.Resolver
	log     logger.Logger
}

// NewEngine wires an engine over the given backend.
func NewEngine(cfg *config.Config, hosts []inventory.Host, backend *Backend, log logger.Logger) *Engine {
	if log == nil {
		log = logger.Noop()
	}
	return &Engine{
		cfg:     cfg,
		hosts:   hosts,
		backend: backend,
		res:     resolver.New(log),
		log:     log,
	}
}

// Hosts returns the inventory the engine polls.
func (e *Engine) Hosts() []inventory.Host {
	return e.hosts
}

// Refresh runs one polling cycle. Connections are established for every host
// up front (redialing everything when reconnect is set), then each reachable
// host is polled in its own goroutine: discover units, resolve instances, and
// check each instance's status. The host's complete
// batch of rows is sent as soon as that host finishes; the channel closes when
// every host has reported. Consumers replace their row set wholesale once the
// channel closes, so rows from different cycles never mix.
func (e *Engine) Refresh(ctx context.Context, reconnect bool) <-chan HostRows {
	if reconnect {
		e.backend.Close()
	}

	out := make(chan HostRows, len(e.hosts))

	go func() {
		failed := e.backend.Connect(ctx, inventory.Addresses(e.hosts))

		var wg sync.WaitGroup
		for _, host := range e.hosts {
			wg.Add(1)
			go func(host inventory.Host) {
				defer wg.Done()
				var batch HostRows
				if err, ok := failed[host.Address]; ok {
					batch = HostRows{Host: host.Address, Rows: e.errorRows(host, err)}
				} else {
					batch = e.pollHost(ctx, host)
				}
				select {
				case out <- batch:
				case <-ctx.Done():
				}
			}(host)
		}
		wg.Wait()
		close(out)
	}()

	return out
}

// pollHost produces one host's rows for the cycle. A connect or discovery
// failure yields one error row per spec that applies to the host, so the host
// stays visible on the dashboard.
func (e *Engine) pollHost(ctx context.Context, host inventory.Host) HostRows {
	units, err := e.backend.DiscoverUnits(ctx, host.Address)
	if err != nil {
		e.log.Debug("discover %s: %v", host.Address, err)
		return HostRows{Host: host.Address, Rows: e.errorRows(host, err)}
	}

	instances := e.res.Resolve(e.cfg.Services, host, units)
	rows := make([]ServiceStatus, len(instances))

	sem := make(chan struct{}, maxUnitChecks)
	var wg sync.WaitGroup
	for i, inst := range instances {
		wg.Add(1)
		go func(i int, inst resolver.Instance) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			row := ServiceStatus{Unit: inst.Unit, Host: host.Address, Group: host.Group, Spec: inst.Spec}
			active, output, err := e.backend.Status(ctx, host.Address, inst.Unit)
			row.Active = active
			row.Output = output
			if err != nil {
				row.Err = err.Error()
			}
			rows[i] = row
		}(i, inst)
	}
	wg.Wait()

	return HostRows{Host: host.Address, Rows: rows}
}

// errorRows marks every applicable spec as failed for a host we couldn't poll.
// Glob specs are shown by their pattern since the unit list is unknown.
func (e *Engine) errorRows(host inventory.Host, err error) []ServiceStatus {
	var rows []ServiceStatus
	for _, spec := range e.cfg.Services {
		if !spec.AppliesTo(host.Group) {
			continue
		}
		rows = append(rows, ServiceStatus{
			Unit:  spec.Name,
			Host:  host.Address,
			Group: host.Group,
			Err:   err.Error(),
			Spec:  spec,
		})
	}
	return rows
}

// FetchDetail streams detail panes for one service instance: the journal tail,
// each configured file, and each configured command. Panes are fetched
// concurrently and delivered as they complete, so one slow command never
// delays the others. The channel closes when every pane has reported.
func (e *Engine) FetchDetail(ctx context.Context, target Target) <-chan DetailResult {
	inst := target.Instance
	out := make(chan DetailResult, 1+len(inst.Spec.Files)+len(inst.Spec.Commands))
	var wg sync.WaitGroup

	send := func(res DetailResult) {
		select {
		case out <- res:
		case <-ctx.Done():
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		content, err := e.backend.Journal(ctx, target.Host, inst.Unit, e.cfg.JournalLines)
		send(DetailResult{Kind: DetailJournal, Label: "journal", Content: content, Err: err})
	}()

	for _, file := range inst.Spec.Files {
		wg.Add(1)
		go func(file string) {
			defer wg.Done()
			content, err := e.backend.ReadFile(ctx, target.Host, file)
			send(DetailResult{Kind: DetailFile, Label: filepath.Base(file), Content: content, Err: err})
		}(file)
	}

	for _, command := range inst.Spec.Commands {
		wg.Add(1)
		go func(command string) {
			defer wg.Done()
			content, err := e.backend.RunCommand(ctx, target.Host, command)
			send(DetailResult{Kind: DetailCommand, Label: commandLabel(command), Content: content, Err: err})
		}(command)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// StopUnit stops the targeted service.
func (e *Engine) StopUnit(ctx context.Context, target Target) error {
	return e.backend.StopUnit(ctx, target.Host, target.Instance.Unit)
}

// RestartUnit restarts the targeted service.
func (e *Engine) RestartUnit(ctx context.Context, target Target) error {
	return e.backend.RestartUnit(ctx, target.Host, target.Instance.Unit)
}

// Close drops every pooled connection.
func (e *Engine) Close() {
	e.backend.Close()
}

// commandLabel is the tab label for a command pane: its first word.
func commandLabel(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "command"
	}
	return fields[0]
}
