package sshutil

import (
	"context"
	"io"
)

// SSHClient is the interface for SSH operations, allowing mock implementations.
type SSHClient interface {
	// Exec runs a command and returns combined stdout output.
	Exec(command string) (string, error)

	// ExecContext runs a command, honoring context cancellation and deadline.
	// Output collected so far is returned alongside the context error.
	ExecContext(ctx context.Context, command string) (string, error)

	// ExecSeparate runs a command and returns stdout and stderr separately.
	ExecSeparate(ctx context.Context, command string) (stdout, stderr string, err error)

	// NewSession opens a raw session. Used as a liveness probe.
	NewSession() (Session, error)

	// Close closes the connection.
	Close() error

	// GetHost returns the host/alias used to connect.
	GetHost() string

	// GetAddress returns the resolved host:port.
	GetAddress() string
}

// Session is the subset of ssh.Session the client depends on.
type Session interface {
	Run(cmd string) error
	Output(cmd string) ([]byte, error)
	CombinedOutput(cmd string) ([]byte, error)
	StdoutPipe() (io.Reader, error)
	StderrPipe() (io.Reader, error)
	Close() error
}

// Verify Client satisfies the interface.
var _ SSHClient = (*Client)(nil)
