package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/svcdash/svcdash/internal/config"
	"github.com/svcdash/svcdash/internal/errors"
	"github.com/svcdash/svcdash/pkg/sshutil"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create starter config and inventory files",
	Long: `Initialize a services config and host inventory in the current directory.

Walks you through the first host and service interactively, suggesting hosts
from your ~/.ssh/config, then writes services.yaml and hosts.ini.

Examples:
  svcdash init
  svcdash init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
}

// initCommand creates starter config and inventory files.
func initCommand(force bool) error {
	if !force {
		for _, path := range []string{configFlag, inventoryFlag} {
			if _, err := os.Stat(path); err == nil {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("File already exists: %s", path),
					"Use --force to overwrite")
			}
		}
	}

	var hostInput, groupInput, serviceInput string
	groupInput = "ungrouped"

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First host").
				Description(hostDescription()).
				Placeholder("web-1 or deploy@10.0.0.1").
				Value(&hostInput).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("host is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Inventory group").
				Description("Hosts are grouped in the inventory; services can be scoped to groups").
				Value(&groupInput),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("First service").
				Description("A systemd unit name or glob, e.g. nginx.service or web-*.service").
				Placeholder("nginx.service").
				Value(&serviceInput).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("service is required")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility, or write services.yaml by hand")
	}

	if err := writeInventory(inventoryFlag, strings.TrimSpace(hostInput), strings.TrimSpace(groupInput)); err != nil {
		return err
	}
	if err := writeSampleConfig(configFlag, strings.TrimSpace(serviceInput)); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote %s and %s\n", configFlag, inventoryFlag)
	fmt.Println("Run 'svcdash' to start the dashboard.")
	return nil
}

// hostDescription lists a few aliases from ~/.ssh/config as suggestions.
func hostDescription() string {
	base := "Hostname, user@host, or an alias from your SSH config"
	hosts, err := sshutil.ParseSSHConfigFile("")
	if err != nil || len(hosts) == 0 {
		return base
	}

	var aliases []string
	for _, h := range hosts {
		aliases = append(aliases, h.Alias)
		if len(aliases) == 5 {
			break
		}
	}
	return base + "\nFrom ~/.ssh/config: " + strings.Join(aliases, ", ")
}

// writeInventory writes a minimal INI inventory.
func writeInventory(path, host, group string) error {
	var b strings.Builder
	b.WriteString("# svcdash inventory: one host per line, grouped by [section]\n")
	if group != "" && group != "ungrouped" {
		fmt.Fprintf(&b, "[%s]\n", group)
	}
	b.WriteString(host + "\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrInventory,
			fmt.Sprintf("Couldn't write %s", path), "")
	}
	return nil
}

// sampleConfig mirrors config.Config with human-friendly duration strings for
// the generated starter file.
type sampleConfig struct {
	Interval     string `yaml:"interval"`
	Timeout      string `yaml:"timeout"`
	JournalLines int    `yaml:"journal_lines"`
	SSH          struct {
		ConnectTimeout  string `yaml:"connect_timeout"`
		InsecureHostKey bool   `yaml:"insecure_host_key"`
	} `yaml:"ssh"`
	Services []config.ServiceSpec `yaml:"services"`
}

// writeSampleConfig writes a starter services.yaml with commented defaults.
func writeSampleConfig(path, service string) error {
	defaults := config.DefaultConfig()
	sample := sampleConfig{
		Interval:     defaults.Interval.String(),
		Timeout:      defaults.Timeout.String(),
		JournalLines: defaults.JournalLines,
	}
	sample.SSH.ConnectTimeout = defaults.SSH.ConnectTimeout.String()
	sample.Services = []config.ServiceSpec{{
		Name:     service,
		Commands: []string{"uptime"},
	}}

	data, err := yaml.Marshal(sample)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't render config", "")
	}

	header := "# svcdash services config.\n" +
		"# Service names may be globs (web-*.service); earlier entries win when\n" +
		"# patterns overlap. Scope an entry with groups: [web, db].\n"

	if err := os.WriteFile(path, []byte(header+string(data)), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't write %s", path), "")
	}
	return nil
}
