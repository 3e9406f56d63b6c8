package poller

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/svcdash/svcdash/internal/errors"
	"github.com/svcdash/svcdash/internal/logger"
	"github.com/svcdash/svcdash/pkg/sshutil"
)

const discoverCommand = "systemctl list-units --type=service --all --plain --no-legend --no-pager"

// Backend runs the remote operations against pooled connections. Every
// operation is bounded by the configured timeout; failures surface as results,
// never as process-fatal errors.
type Backend struct {
	pool    *Pool
	timeout time.Duration
	log     logger.Logger
}

// NewBackend creates a backend over the given pool.
func NewBackend(pool *Pool, timeout time.Duration, log logger.Logger) *Backend {
	if log == nil {
		log = logger.Noop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Backend{pool: pool, timeout: timeout, log: log}
}

// Connect dials every host concurrently, reusing live connections. Returns a
// map of host → error for hosts that couldn't be reached; reachable hosts are
// absent from the map.
func (b *Backend) Connect(ctx context.Context, hosts []string) map[string]error {
	type outcome struct {
		host string
		err  error
	}

	results := make(chan outcome, len(hosts))
	for _, host := range hosts {
		go func(host string) {
			_, err := b.pool.Get(host)
			select {
			case results <- outcome{host, err}:
			case <-ctx.Done():
			}
		}(host)
	}

	failed := make(map[string]error)
	for range hosts {
		select {
		case res := <-results:
			if res.err != nil {
				b.log.Debug("connect %s failed: %v", res.host, res.err)
				failed[res.host] = res.err
			}
		case <-ctx.Done():
			return failed
		}
	}
	return failed
}

// DiscoverUnits lists every service unit on a host, loaded or not.
func (b *Backend) DiscoverUnits(ctx context.Context, host string) ([]string, error) {
	output, err := b.exec(ctx, host, discoverCommand)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDiscover,
			fmt.Sprintf("Couldn't list services on %s", host),
			"Check systemd is running: ssh <host> systemctl --version")
	}

	var units []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		// --plain still prefixes not-found units with a bullet in some
		// systemd versions, usually followed by a space so the marker is
		// its own field.
		unit := fields[0]
		if unit == "●" {
			if len(fields) < 2 {
				continue
			}
			unit = fields[1]
		}
		unit = strings.TrimPrefix(unit, "●")
		if strings.HasSuffix(unit, ".service") {
			units = append(units, unit)
		}
	}
	return units, nil
}

// Status checks one unit. Active follows the systemctl exit code: zero means
// active, any non-zero exit means inactive. Errors other than a non-zero exit
// (dead connection, timeout) are returned as err.
func (b *Backend) Status(ctx context.Context, host, unit string) (active bool, output string, err error) {
	cmd := fmt.Sprintf("systemctl status --no-pager %s", shellQuote(unit))
	output, err = b.exec(ctx, host, cmd)

	if err == nil {
		return true, output, nil
	}

	var exitErr *sshutil.ExitError
	if stderrors.As(err, &exitErr) {
		return false, output, nil
	}
	return false, output, err
}

// Journal tails the unit's journal.
func (b *Backend) Journal(ctx context.Context, host, unit string, lines int) (string, error) {
	if lines <= 0 {
		lines = 200
	}
	cmd := fmt.Sprintf("journalctl -u %s --no-pager -n %d", shellQuote(unit), lines)
	output, err := b.exec(ctx, host, cmd)
	if err != nil {
		// journalctl exits non-zero for units with no entries; the output
		// still explains why, so show it.
		var exitErr *sshutil.ExitError
		if stderrors.As(err, &exitErr) {
			return output, nil
		}
		return output, err
	}
	return output, nil
}

// ReadFile reads a remote file.
func (b *Backend) ReadFile(ctx context.Context, host, path string) (string, error) {
	output, err := b.exec(ctx, host, fmt.Sprintf("cat %s", shellQuote(path)))
	if err != nil {
		return output, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Couldn't read %s on %s", path, host), "")
	}
	return output, nil
}

// RunCommand runs an arbitrary command, keeping stderr visible after a marker
// line when the command produced any.
func (b *Backend) RunCommand(ctx context.Context, host, command string) (string, error) {
	client, err := b.pool.Get(host)
	if err != nil {
		return "", connectError(host, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	stdout, stderr, err := client.ExecSeparate(ctx, command)
	if ctx.Err() == context.DeadlineExceeded {
		b.pool.CloseOne(host)
	}
	combined := stdout
	if stderr != "" {
		if combined != "" && !strings.HasSuffix(combined, "\n") {
			combined += "\n"
		}
		combined += "--- stderr ---\n" + stderr
	}

	if err != nil {
		var exitErr *sshutil.ExitError
		if stderrors.As(err, &exitErr) {
			return combined, nil
		}
		return combined, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Command failed on %s", host), "")
	}
	return combined, nil
}

// StopUnit stops a service unit.
func (b *Backend) StopUnit(ctx context.Context, host, unit string) error {
	return b.unitAction(ctx, host, "stop", unit)
}

// RestartUnit restarts a service unit.
func (b *Backend) RestartUnit(ctx context.Context, host, unit string) error {
	return b.unitAction(ctx, host, "restart", unit)
}

func (b *Backend) unitAction(ctx context.Context, host, action, unit string) error {
	cmd := fmt.Sprintf("systemctl %s %s", action, shellQuote(unit))
	output, err := b.exec(ctx, host, cmd)
	if err != nil {
		msg := fmt.Sprintf("Couldn't %s %s on %s", action, unit, host)
		suggestion := ""
		if strings.Contains(output, "Interactive authentication required") ||
			strings.Contains(output, "Access denied") {
			suggestion = "The SSH user needs permission to manage units. Try a user with sudo-less systemctl rights."
		}
		return errors.WrapWithCode(err, errors.ErrExec, msg, suggestion)
	}
	return nil
}

// CloseHost drops the connection to one host.
func (b *Backend) CloseHost(host string) {
	b.pool.CloseOne(host)
}

// Close drops every connection.
func (b *Backend) Close() {
	b.pool.Close()
}

// exec runs a command over the pooled connection, bounded by the backend
// timeout.
func (b *Backend) exec(ctx context.Context, host, command string) (string, error) {
	client, err := b.pool.Get(host)
	if err != nil {
		return "", connectError(host, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	output, err := client.ExecContext(ctx, command)
	if ctx.Err() == context.DeadlineExceeded {
		// The connection may be wedged; drop it so the next cycle redials.
		b.pool.CloseOne(host)
	}
	return output, err
}

func connectError(host string, err error) error {
	var serr *errors.Error
	if stderrors.As(err, &serr) {
		return err
	}
	return errors.WrapWithCode(err, errors.ErrSSH,
		fmt.Sprintf("No connection to %s", host), "")
}

// shellQuote single-quotes an argument for the remote shell.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'`$&|;<>(){}[]*?!\\~#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
