// Package testing provides a mock SSH client for tests.
package testing

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/svcdash/svcdash/pkg/sshutil"
)

// CommandResponse is a canned response for a command.
type CommandResponse struct {
	Output string
	Stderr string
	Err    error
	// Delay is waited before responding, to simulate slow remote commands.
	Delay time.Duration
}

// MockClient implements sshutil.SSHClient with canned responses.
type MockClient struct {
	mu        sync.Mutex
	Host      string
	Address   string
	Responses map[string]CommandResponse
	// DefaultErr is returned for commands with no canned response.
	// When nil, unknown commands return empty output and no error.
	DefaultErr error
	// SessionErr makes NewSession fail, simulating a dead connection.
	SessionErr error

	calls  []string
	closed bool
}

// NewMockClient creates a mock client for the given host.
func NewMockClient(host string) *MockClient {
	return &MockClient{
		Host:      host,
		Address:   host + ":22",
		Responses: make(map[string]CommandResponse),
	}
}

// Respond registers a canned response for a command.
func (m *MockClient) Respond(command, output string, err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[command] = CommandResponse{Output: output, Err: err}
	return m
}

// RespondSlow registers a canned response delivered after a delay.
func (m *MockClient) RespondSlow(command, output string, delay time.Duration) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[command] = CommandResponse{Output: output, Delay: delay}
	return m
}

// Calls returns the commands executed so far, in order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Closed reports whether Close was called.
func (m *MockClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockClient) lookup(command string) (CommandResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, command)
	if m.closed {
		return CommandResponse{}, fmt.Errorf("connection closed")
	}
	resp, ok := m.Responses[command]
	if !ok {
		return CommandResponse{}, m.DefaultErr
	}
	return resp, nil
}

// Exec returns the canned response for the command.
func (m *MockClient) Exec(command string) (string, error) {
	return m.ExecContext(context.Background(), command)
}

// ExecContext returns the canned response, honoring Delay and ctx.
func (m *MockClient) ExecContext(ctx context.Context, command string) (string, error) {
	resp, err := m.lookup(command)
	if err != nil {
		return "", err
	}
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return resp.Output, resp.Err
}

// ExecSeparate returns the canned stdout and stderr.
func (m *MockClient) ExecSeparate(ctx context.Context, command string) (string, string, error) {
	resp, err := m.lookup(command)
	if err != nil {
		return "", "", err
	}
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return "", "", ctx.Err()
		}
	}
	return resp.Output, resp.Stderr, resp.Err
}

// NewSession fails with SessionErr when set. Otherwise it returns a no-op
// session, so liveness probes see the mock as connected.
func (m *MockClient) NewSession() (sshutil.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	if m.closed {
		return nil, fmt.Errorf("connection closed")
	}
	return mockSession{}, nil
}

type mockSession struct{}

func (mockSession) Run(string) error                      { return nil }
func (mockSession) Output(string) ([]byte, error)         { return nil, nil }
func (mockSession) CombinedOutput(string) ([]byte, error) { return nil, nil }
func (mockSession) StdoutPipe() (io.Reader, error)        { return nil, nil }
func (mockSession) StderrPipe() (io.Reader, error)        { return nil, nil }
func (mockSession) Close() error                          { return nil }

// Close marks the client closed.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// GetHost returns the mock host name.
func (m *MockClient) GetHost() string { return m.Host }

// GetAddress returns the mock address.
func (m *MockClient) GetAddress() string { return m.Address }

var _ sshutil.SSHClient = (*MockClient)(nil)
