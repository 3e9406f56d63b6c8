// Package cli wires the cobra command tree: the root dashboard command plus
// check, init, version, and completion.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/svcdash/svcdash/internal/errors"
	"github.com/svcdash/svcdash/internal/logger"
)

// Persistent flags shared by every command.
var (
	configFlag          string
	inventoryFlag       string
	logFileFlag         string
	intervalFlag        string
	timeoutFlag         string
	insecureHostKeyFlag bool
)

// rootCmd runs the dashboard when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "svcdash",
	Short: "SSH fleet dashboard for systemd services",
	Long: `svcdash monitors systemd services across a fleet of hosts over SSH.

It connects to every host in the inventory, matches service units against the
configured names and glob patterns, and shows a live dashboard with per-service
status, journal tails, watched files, and health commands.

Examples:
  svcdash
  svcdash -i hosts.ini -c services.yaml
  svcdash --interval 10s
  svcdash check`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "services.yaml", "services config file")
	rootCmd.PersistentFlags().StringVarP(&inventoryFlag, "inventory", "i", "hosts.ini", "inventory file (INI host groups)")
	rootCmd.PersistentFlags().StringVarP(&logFileFlag, "log", "l", "", "write debug log to file")
	rootCmd.PersistentFlags().StringVar(&intervalFlag, "interval", "", "refresh interval (e.g., 10s, 1m)")
	rootCmd.PersistentFlags().StringVar(&timeoutFlag, "timeout", "", "per-operation timeout (e.g., 5s)")
	rootCmd.PersistentFlags().BoolVar(&insecureHostKeyFlag, "insecure-host-key", false, "skip known_hosts verification")
}

// Execute runs the root command and handles error display.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var serr *errors.Error
		if stderrors.As(err, &serr) {
			// Structured errors carry their own formatting and suggestion.
			fmt.Fprintln(os.Stderr, serr.Error())
		} else {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		}
		os.Exit(1)
	}
}

// setupLogging installs the file logger when --log is set. The returned
// cleanup is a no-op otherwise.
func setupLogging() (func(), error) {
	if logFileFlag == "" {
		return func() {}, nil
	}

	log, closer, err := logger.NewFileLogger("svcdash", logFileFlag)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't open log file %s", logFileFlag), "")
	}
	logger.SetDefault(log)
	return func() { closer.Close() }, nil
}
