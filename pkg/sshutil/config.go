package sshutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// ConfigHost is a host entry from an SSH config file.
type ConfigHost struct {
	Alias    string // The Host pattern (e.g., "web-1")
	Hostname string // The actual hostname if specified
	User     string
	Port     string
}

// ParseSSHConfigFile extracts concrete host aliases from an SSH config file.
// Wildcard patterns and negations are skipped. Returns an empty slice when the
// file doesn't exist.
func ParseSSHConfigFile(path string) ([]ConfigHost, error) {
	if path == "" {
		path = filepath.Join(homeDir(), ".ssh", "config")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	content, _, err := preprocessSSHConfig(path)
	if err != nil {
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var hosts []ConfigHost
	seen := make(map[string]bool)

	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if strings.ContainsAny(alias, "*?!") || alias == "" {
				continue
			}
			if seen[alias] {
				continue
			}
			seen[alias] = true

			entry := ConfigHost{Alias: alias}
			if hostname, _ := cfg.Get(alias, "HostName"); hostname != "" {
				entry.Hostname = hostname
			}
			if user, _ := cfg.Get(alias, "User"); user != "" {
				entry.User = user
			}
			if port, _ := cfg.Get(alias, "Port"); port != "" && port != "22" {
				entry.Port = port
			}
			hosts = append(hosts, entry)
		}
	}

	sort.Slice(hosts, func(i, j int) bool { return hosts[i].Alias < hosts[j].Alias })
	return hosts, nil
}
