package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svcdash/svcdash/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
interval: 15s
timeout: 5s
journal_lines: 100
ssh:
  connect_timeout: 3s
  insecure_host_key: true
services:
  - name: nginx
    files:
      - /etc/nginx/nginx.conf
    commands:
      - nginx -t
  - name: "web-*"
    groups: [web]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Interval)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 100, cfg.JournalLines)
	assert.Equal(t, 3*time.Second, cfg.SSH.ConnectTimeout)
	assert.True(t, cfg.SSH.InsecureHostKey)

	require.Len(t, cfg.Services, 2)
	assert.Equal(t, "nginx", cfg.Services[0].Name)
	assert.Equal(t, []string{"/etc/nginx/nginx.conf"}, cfg.Services[0].Files)
	assert.Equal(t, []string{"nginx -t"}, cfg.Services[0].Commands)
	assert.Equal(t, []string{"web"}, cfg.Services[1].Groups)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "services:\n  - name: redis\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 200, cfg.JournalLines)
	assert.False(t, cfg.SSH.InsecureHostKey)
}

func TestLoadPreservesServiceOrder(t *testing.T) {
	// Order drives first-match-wins resolution, so it must survive loading.
	path := writeConfig(t, `
services:
  - name: "web-*"
  - name: web-1
  - name: redis
  - name: "db-?"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	var names []string
	for _, s := range cfg.Services {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"web-*", "web-1", "redis", "db-?"}, names)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "services: [unclosed\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Services = []ServiceSpec{{Name: "nginx", Files: []string{"/etc/nginx/nginx.conf"}}}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config passes",
			mutate: func(c *Config) {},
		},
		{
			name:    "no services",
			mutate:  func(c *Config) { c.Services = nil },
			wantErr: "No services configured",
		},
		{
			name:    "empty name",
			mutate:  func(c *Config) { c.Services = append(c.Services, ServiceSpec{Name: "  "}) },
			wantErr: "has no name",
		},
		{
			name:    "duplicate name",
			mutate:  func(c *Config) { c.Services = append(c.Services, ServiceSpec{Name: "nginx"}) },
			wantErr: "Duplicate service entry",
		},
		{
			name:    "relative file path",
			mutate:  func(c *Config) { c.Services[0].Files = []string{"etc/nginx.conf"} },
			wantErr: "relative file path",
		},
		{
			name:    "interval too short",
			mutate:  func(c *Config) { c.Interval = 100 * time.Millisecond },
			wantErr: "too short",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: "must be positive",
		},
		{
			name:    "zero journal lines",
			mutate:  func(c *Config) { c.JournalLines = 0 },
			wantErr: "journal_lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestAppliesTo(t *testing.T) {
	unscoped := ServiceSpec{Name: "nginx"}
	assert.True(t, unscoped.AppliesTo("web"))
	assert.True(t, unscoped.AppliesTo("ungrouped"))

	scoped := ServiceSpec{Name: "web-*", Groups: []string{"web", "edge"}}
	assert.True(t, scoped.AppliesTo("web"))
	assert.True(t, scoped.AppliesTo("edge"))
	assert.False(t, scoped.AppliesTo("db"))
}
