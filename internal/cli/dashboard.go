package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/svcdash/svcdash/internal/config"
	"github.com/svcdash/svcdash/internal/dashboard"
	"github.com/svcdash/svcdash/internal/errors"
	"github.com/svcdash/svcdash/internal/inventory"
	"github.com/svcdash/svcdash/internal/logger"
	"github.com/svcdash/svcdash/internal/poller"
	"github.com/svcdash/svcdash/pkg/sshutil"
)

// dashboardCommand starts the TUI.
func dashboardCommand() error {
	cleanup, err := setupLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	cfg, hosts, err := loadRuntime()
	if err != nil {
		return err
	}

	engine := buildEngine(cfg, hosts)
	model := dashboard.NewModel(engine, cfg, logger.Default())

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()

	// Graceful shutdown: close every SSH session and the agent socket.
	if m, ok := final.(dashboard.Model); ok {
		m.Close()
	} else {
		engine.Close()
	}
	sshutil.CloseAgent()

	return err
}

// loadRuntime loads config and inventory, applying flag overrides on top.
func loadRuntime() (*config.Config, []inventory.Host, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, nil, err
	}

	if intervalFlag != "" {
		d, err := parseDurationFlag("interval", intervalFlag)
		if err != nil {
			return nil, nil, err
		}
		cfg.Interval = d
	}
	if timeoutFlag != "" {
		d, err := parseDurationFlag("timeout", timeoutFlag)
		if err != nil {
			return nil, nil, err
		}
		cfg.Timeout = d
	}
	if insecureHostKeyFlag {
		cfg.SSH.InsecureHostKey = true
	}
	if cfg.SSH.InsecureHostKey {
		logger.Default().Warn("host key verification DISABLED: connections are open to man-in-the-middle attacks")
	}

	hosts, err := inventory.Load(inventoryFlag)
	if err != nil {
		return nil, nil, err
	}

	return cfg, hosts, nil
}

// buildEngine wires pool → backend → engine from the loaded config.
func buildEngine(cfg *config.Config, hosts []inventory.Host) *poller.Engine {
	opts := sshutil.Options{
		Timeout:         cfg.SSH.ConnectTimeout,
		InsecureHostKey: cfg.SSH.InsecureHostKey,
	}
	pool := poller.NewPool(opts)
	backend := poller.NewBackend(pool, cfg.Timeout, logger.Default())
	return poller.NewEngine(cfg, hosts, backend, logger.Default())
}

// parseDurationFlag parses a duration flag value.
func parseDurationFlag(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid --%s", value, name),
			"Try something like 5s, 30s, or 2m.")
	}
	if d <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("--%s must be positive", name), "")
	}
	return d, nil
}
