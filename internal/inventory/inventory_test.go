package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svcdash/svcdash/internal/errors"
)

func writeInventory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hosts.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGroupsAndOrder(t *testing.T) {
	path := writeInventory(t, `
# frontend tier
[web]
web-1.example.com
web-2.example.com ansible_user=deploy

; databases
[db]
db-1.example.com ansible_port=2222
`)

	hosts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []Host{
		{Address: "web-1.example.com", Group: "web"},
		{Address: "web-2.example.com", Group: "web"},
		{Address: "db-1.example.com", Group: "db"},
	}, hosts)
}

func TestLoadUngroupedDefault(t *testing.T) {
	path := writeInventory(t, "standalone.example.com\n\n[app]\napp-1\n")

	hosts, err := Load(path)
	require.NoError(t, err)

	require.Len(t, hosts, 2)
	assert.Equal(t, UngroupedLabel, hosts[0].Group)
	assert.Equal(t, "app", hosts[1].Group)
}

func TestLoadInlineVarsIgnored(t *testing.T) {
	path := writeInventory(t, "[app]\napp-1 ansible_host=10.0.0.5 ansible_user=root\n")

	hosts, err := Load(path)
	require.NoError(t, err)

	require.Len(t, hosts, 1)
	assert.Equal(t, "app-1", hosts[0].Address)
}

func TestLoadDuplicateAddressKeptOnce(t *testing.T) {
	path := writeInventory(t, "[a]\nshared-1\n[b]\nshared-1\n")

	hosts, err := Load(path)
	require.NoError(t, err)

	// First occurrence wins, including its group.
	require.Len(t, hosts, 1)
	assert.Equal(t, "a", hosts[0].Group)
}

func TestLoadEmptyInventory(t *testing.T) {
	path := writeInventory(t, "# only comments\n\n[web]\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInventory))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInventory))
}

func TestAddresses(t *testing.T) {
	hosts := []Host{
		{Address: "web-1", Group: "web"},
		{Address: "db-1", Group: "db"},
	}
	assert.Equal(t, []string{"web-1", "db-1"}, Addresses(hosts))
}
