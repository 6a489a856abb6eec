package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	defer func() { verbose, quiet = false, false }()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		level   string
		want    slog.Level
	}{
		{"config level", false, false, "warn", slog.LevelWarn},
		{"lower case debug", false, false, "debug", slog.LevelDebug},
		{"unknown level", false, false, "chatty", slog.LevelInfo},
		{"verbose wins", true, false, "error", slog.LevelDebug},
		{"quiet", false, true, "info", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbose, quiet = tt.verbose, tt.quiet
			logger := newLogger(&bytes.Buffer{}, tt.level)
			assert.True(t, logger.Enabled(context.Background(), tt.want))
			if tt.want > slog.LevelDebug {
				assert.False(t, logger.Enabled(context.Background(), tt.want-4))
			}
		})
	}
}

func TestReadInput(t *testing.T) {
	data, err := readInput(strings.NewReader("from stdin"), "")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(data))

	name := filepath.Join(t.TempDir(), "input.bin")
	require.NoError(t, os.WriteFile(name, []byte("from file"), 0o644))
	data, err = readInput(strings.NewReader("ignored"), name)
	require.NoError(t, err)
	assert.Equal(t, "from file", string(data))

	_, err = readInput(nil, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"info", "ls", "cat", "find", "extract", "touch", "append", "config"} {
		assert.Contains(t, names, want)
	}
}
