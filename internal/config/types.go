package config

import "time"

// Config represents the complete services.yaml configuration file.
type Config struct {
	// Interval between automatic refresh cycles.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout is the upper bound for a single remote operation. One slow
	// host must never stall the others, so every SSH call carries this.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// JournalLines is how many journal lines the detail view fetches.
	JournalLines int `yaml:"journal_lines" mapstructure:"journal_lines"`

	// SSH holds transport-level settings.
	SSH SSHConfig `yaml:"ssh" mapstructure:"ssh"`

	// Services is the ordered list of service entries. Order matters:
	// when several patterns match the same unit, the first entry wins.
	Services []ServiceSpec `yaml:"services" mapstructure:"services"`
}

// SSHConfig controls how sessions are established.
type SSHConfig struct {
	// ConnectTimeout bounds session establishment per host.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// InsecureHostKey disables known_hosts verification. Off by default;
	// turning it on is logged loudly at startup.
	InsecureHostKey bool `yaml:"insecure_host_key" mapstructure:"insecure_host_key"`
}

// ServiceSpec is one configured service entry: a literal systemd unit name or
// a glob pattern, plus the files and commands its detail view inspects.
type ServiceSpec struct {
	// Name is a unit name ("nginx.service", "redis") or a glob pattern
	// ("web-*"). Matching is full-string, never substring.
	Name string `yaml:"name" mapstructure:"name"`

	// Files are absolute remote paths shown as detail tabs.
	Files []string `yaml:"files" mapstructure:"files"`

	// Commands are shell command strings run as-given on the host.
	Commands []string `yaml:"commands" mapstructure:"commands"`

	// Groups restricts the spec to hosts in the listed inventory groups.
	// Empty means the spec applies to every host.
	Groups []string `yaml:"groups,omitempty" mapstructure:"groups"`
}

// AppliesTo reports whether the spec should be checked on a host in the
// given inventory group.
func (s ServiceSpec) AppliesTo(group string) bool {
	if len(s.Groups) == 0 {
		return true
	}
	for _, g := range s.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Interval:     30 * time.Second,
		Timeout:      10 * time.Second,
		JournalLines: 200,
		SSH: SSHConfig{
			ConnectTimeout:  10 * time.Second,
			InsecureHostKey: false,
		},
	}
}
