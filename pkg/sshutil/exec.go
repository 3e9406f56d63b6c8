package sshutil

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/crypto/ssh"
)

// ExitError carries the remote exit code alongside any captured output.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command exited with code %d: %s", e.Code, e.Stderr)
	}
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// Exec runs a command on the remote host and returns its combined output.
// A non-zero exit returns the output plus an *ExitError.
func (c *Client) Exec(command string) (string, error) {
	session, err := c.Client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	output, err := session.CombinedOutput(command)
	if err != nil {
		if exitErr, ok := err.(*ssh.ExitError); ok {
			return string(output), &ExitError{Code: exitErr.ExitStatus(), Stderr: string(output)}
		}
		return string(output), err
	}
	return string(output), nil
}

// ExecContext runs a command bounded by ctx. When the context expires the
// session is torn down and ctx.Err() is returned; the remote command may
// keep running on the host, there is no clean way to kill it over a plain
// session.
func (c *Client) ExecContext(ctx context.Context, command string) (string, error) {
	session, err := c.Client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	type result struct {
		output []byte
		err    error
	}
	done := make(chan result, 1)

	go func() {
		output, err := session.CombinedOutput(command)
		done <- result{output, err}
	}()

	select {
	case <-ctx.Done():
		session.Close()
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			if exitErr, ok := res.err.(*ssh.ExitError); ok {
				return string(res.output), &ExitError{Code: exitErr.ExitStatus(), Stderr: string(res.output)}
			}
			return string(res.output), res.err
		}
		return string(res.output), nil
	}
}

// ExecSeparate runs a command bounded by ctx and captures stdout and stderr
// into separate buffers.
func (c *Client) ExecSeparate(ctx context.Context, command string) (string, string, error) {
	session, err := c.Client.NewSession()
	if err != nil {
		return "", "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-ctx.Done():
		// The Run goroutine may still be writing the buffers; don't read
		// them here.
		session.Close()
		return "", "", ctx.Err()
	case err := <-done:
		if err != nil {
			if exitErr, ok := err.(*ssh.ExitError); ok {
				return stdout.String(), stderr.String(), &ExitError{Code: exitErr.ExitStatus(), Stderr: stderr.String()}
			}
			return stdout.String(), stderr.String(), err
		}
		return stdout.String(), stderr.String(), nil
	}
}
