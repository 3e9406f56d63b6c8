package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/svcdash/svcdash/internal/errors"
	"github.com/svcdash/svcdash/internal/poller"
	"github.com/svcdash/svcdash/pkg/sshutil"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one polling cycle and print the results",
	Long: `Run a single polling cycle against the fleet and print a plain table.

Intended for scripts and cron: exits 1 when any service is inactive or any
host could not be polled.

Examples:
  svcdash check
  svcdash check -i hosts.ini -c services.yaml
  svcdash check --timeout 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkCommand()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

var (
	checkActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	checkInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	checkErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	checkHeaderStyle   = lipgloss.NewStyle().Bold(true)
)

// checkCommand runs one cycle and prints a plain table.
func checkCommand() error {
	cleanup, err := setupLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	// Piped output gets no ANSI sequences.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, hosts, err := loadRuntime()
	if err != nil {
		return err
	}

	engine := buildEngine(cfg, hosts)
	defer func() {
		engine.Close()
		sshutil.CloseAgent()
	}()

	ctx, cancel := context.WithTimeout(context.Background(),
		cfg.Timeout*time.Duration(len(hosts)+1))
	defer cancel()

	batches := make(map[string][]poller.ServiceStatus)
	for batch := range engine.Refresh(ctx, false) {
		batches[batch.Host] = batch.Rows
	}

	var rows []poller.ServiceStatus
	for _, host := range hosts {
		rows = append(rows, batches[host.Address]...)
	}

	printCheckTable(os.Stdout, rows)

	unhealthy := 0
	for _, row := range rows {
		if row.Err != "" || !row.Active {
			unhealthy++
		}
	}
	if unhealthy > 0 {
		return errors.New(errors.ErrExec,
			fmt.Sprintf("%d of %d services unhealthy", unhealthy, len(rows)), "")
	}
	return nil
}

// printCheckTable writes the aligned result table.
func printCheckTable(w io.Writer, rows []poller.ServiceStatus) {
	serviceW, hostW, groupW := len("SERVICE"), len("HOST"), len("GROUP")
	for _, row := range rows {
		serviceW = max(serviceW, len(row.Unit))
		hostW = max(hostW, len(row.Host))
		groupW = max(groupW, len(row.Group))
	}

	header := fmt.Sprintf("%-*s  %-*s  %-*s  %s",
		serviceW, "SERVICE", hostW, "HOST", groupW, "GROUP", "STATUS")
	fmt.Fprintln(w, checkHeaderStyle.Render(header))

	for _, row := range rows {
		var status string
		switch {
		case row.Err != "":
			status = checkErrorStyle.Render("✗ " + firstLine(row.Err))
		case row.Active:
			status = checkActiveStyle.Render("● active")
		default:
			status = checkInactiveStyle.Render("○ inactive")
		}
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n",
			serviceW, row.Unit, hostW, row.Host, groupW, row.Group, status)
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
