package poller

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svcdash/svcdash/internal/logger"
	"github.com/svcdash/svcdash/pkg/sshutil"
	mockssh "github.com/svcdash/svcdash/pkg/sshutil/testing"
)

// mockBackend wires a backend over mock clients, one per host.
func mockBackend(t *testing.T, clients map[string]*mockssh.MockClient) *Backend {
	t.Helper()
	pool := NewPool(sshutil.Options{})
	pool.SetDial(func(host string, opts sshutil.Options) (sshutil.SSHClient, error) {
		client, ok := clients[host]
		if !ok {
			return nil, fmt.Errorf("connection refused")
		}
		return client, nil
	})
	return NewBackend(pool, 5*time.Second, logger.Noop())
}

func TestBackend_DiscoverUnits(t *testing.T) {
	client := mockssh.NewMockClient("web-1")
	client.Respond(discoverCommand,
		"nginx.service loaded active running A high performance web server\n"+
			"● broken.service not-found inactive dead broken.service\n"+
			"●failed.service loaded failed failed failed.service\n"+
			"redis.service loaded active running Advanced key-value store\n"+
			"apt-daily.timer loaded active waiting Daily apt activities\n"+
			"●\n",
		nil)

	b := mockBackend(t, map[string]*mockssh.MockClient{"web-1": client})

	units, err := b.DiscoverUnits(context.Background(), "web-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"nginx.service", "broken.service", "failed.service", "redis.service"}, units)
}

func TestBackend_Status_ExitCode(t *testing.T) {
	client := mockssh.NewMockClient("web-1")
	client.Respond("systemctl status --no-pager nginx.service", "● nginx.service - running", nil)
	client.Respond("systemctl status --no-pager redis.service", "○ redis.service - dead",
		&sshutil.ExitError{Code: 3})
	b := mockBackend(t, map[string]*mockssh.MockClient{"web-1": client})

	active, output, err := b.Status(context.Background(), "web-1", "nginx.service")
	require.NoError(t, err)
	assert.True(t, active)
	assert.Contains(t, output, "running")

	active, output, err = b.Status(context.Background(), "web-1", "redis.service")
	require.NoError(t, err)
	assert.False(t, active)
	assert.Contains(t, output, "dead")
}

func TestBackend_Status_ConnectFailure(t *testing.T) {
	b := mockBackend(t, nil)

	active, _, err := b.Status(context.Background(), "unreachable", "nginx.service")
	require.Error(t, err)
	assert.False(t, active)
}

func TestBackend_RunCommand_StderrMarker(t *testing.T) {
	client := mockssh.NewMockClient("web-1")
	client.Responses["free -h"] = mockssh.CommandResponse{
		Output: "total used free\n",
		Stderr: "some warning\n",
	}
	client.Respond("uptime", "up 3 days\n", nil)
	b := mockBackend(t, map[string]*mockssh.MockClient{"web-1": client})

	out, err := b.RunCommand(context.Background(), "web-1", "free -h")
	require.NoError(t, err)
	assert.Equal(t, "total used free\n--- stderr ---\nsome warning\n", out)

	out, err = b.RunCommand(context.Background(), "web-1", "uptime")
	require.NoError(t, err)
	assert.NotContains(t, out, "--- stderr ---")
}

func TestBackend_RunCommand_Timeout(t *testing.T) {
	// A timed-out command returns no partial output and drops the pooled
	// connection so the next cycle redials.
	client := mockssh.NewMockClient("web-1")
	client.RespondSlow("sleep 60", "never delivered\n", 500*time.Millisecond)

	pool := NewPool(sshutil.Options{})
	pool.SetDial(func(host string, opts sshutil.Options) (sshutil.SSHClient, error) {
		return client, nil
	})
	b := NewBackend(pool, 50*time.Millisecond, logger.Noop())

	out, err := b.RunCommand(context.Background(), "web-1", "sleep 60")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.False(t, pool.Has("web-1"), "wedged connection should be dropped")
}

func TestBackend_Journal_NoEntries(t *testing.T) {
	client := mockssh.NewMockClient("web-1")
	client.Respond("journalctl -u ghost.service --no-pager -n 200",
		"-- No entries --\n", &sshutil.ExitError{Code: 1})
	b := mockBackend(t, map[string]*mockssh.MockClient{"web-1": client})

	out, err := b.Journal(context.Background(), "web-1", "ghost.service", 200)
	require.NoError(t, err)
	assert.Contains(t, out, "No entries")
}

func TestBackend_Connect_PartialFailure(t *testing.T) {
	b := mockBackend(t, map[string]*mockssh.MockClient{
		"web-1": mockssh.NewMockClient("web-1"),
	})

	failed := b.Connect(context.Background(), []string{"web-1", "web-2"})
	require.Len(t, failed, 1)
	assert.Contains(t, failed["web-2"].Error(), "refused")
}

func TestBackend_CloseHostIdempotent(t *testing.T) {
	client := mockssh.NewMockClient("web-1")
	b := mockBackend(t, map[string]*mockssh.MockClient{"web-1": client})

	failed := b.Connect(context.Background(), []string{"web-1"})
	require.Empty(t, failed)

	b.CloseHost("web-1")
	b.CloseHost("web-1")
	b.CloseHost("never-connected")
	assert.True(t, client.Closed())
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "nginx.service", shellQuote("nginx.service"))
	assert.Equal(t, "'my app.service'", shellQuote("my app.service"))
	assert.Equal(t, `'it'\''s.service'`, shellQuote("it's.service"))
	assert.Equal(t, "''", shellQuote(""))
}
