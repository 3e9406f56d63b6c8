package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/svcdash/svcdash/internal/errors"
)

// Validate checks a loaded config for problems that would break a run.
// Malformed configuration is the only class of failure allowed to abort
// startup; everything later is surfaced per row instead.
func Validate(cfg *Config) error {
	if len(cfg.Services) == 0 {
		return errors.New(errors.ErrConfig,
			"No services configured",
			"Add at least one entry under 'services:' in the config file")
	}

	seen := make(map[string]bool)
	for i, spec := range cfg.Services {
		if strings.TrimSpace(spec.Name) == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Service entry %d has no name", i+1),
				"Every services entry needs a 'name' (unit name or glob pattern)")
		}
		if seen[spec.Name] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Duplicate service entry '%s'", spec.Name),
				"Remove the duplicate; the first entry would always win anyway")
		}
		seen[spec.Name] = true

		for _, f := range spec.Files {
			if !strings.HasPrefix(f, "/") {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Service '%s' lists a relative file path: %s", spec.Name, f),
					"File paths are read on the remote host and must be absolute")
			}
		}
	}

	if cfg.Interval < time.Second {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval %s is too short", cfg.Interval),
			"Use at least 1s to avoid hammering the hosts")
	}

	if cfg.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"Operation timeout must be positive",
			"Set 'timeout' to something like 10s")
	}

	if cfg.JournalLines <= 0 {
		return errors.New(errors.ErrConfig,
			"journal_lines must be positive",
			"Set 'journal_lines' to something like 200")
	}

	return nil
}
