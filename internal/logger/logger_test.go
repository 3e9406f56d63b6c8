package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferLoggerCaptures(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %d", 1)
	l.Info("info")
	l.Warn("warn")
	l.Error("error: %s", "boom")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, "debug 1", l.Messages[0].Message)
	assert.Equal(t, "debug", l.Messages[0].Level)
	assert.Equal(t, "error: boom", l.Messages[3].Message)

	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("fatal"))

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestNoopLoggerDiscards(t *testing.T) {
	l := Noop()

	// Should not panic; there is nothing observable to assert beyond that.
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
}

func TestFileLoggerWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcdash.log")

	l, closer, err := NewFileLogger("[test]", path)
	require.NoError(t, err)

	l.Info("hello %s", "world")
	l.Debug("visible in file logs")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[test] hello world")
	assert.Contains(t, string(data), "DEBUG: visible in file logs")
}

func TestFileLoggerBadPath(t *testing.T) {
	_, _, err := NewFileLogger("[test]", filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("routed")

	require.Len(t, buf.Messages, 1)
	assert.Equal(t, "routed", buf.Messages[0].Message)
}
