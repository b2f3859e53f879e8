package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConsoleLevelFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
		want  zapcore.Level
	}{
		{name: "unset defaults to error", want: zapcore.ErrorLevel},
		{name: "debug", value: "debug", set: true, want: zapcore.DebugLevel},
		{name: "warn", value: "warn", set: true, want: zapcore.WarnLevel},
		{name: "garbage falls back to error", value: "shout", set: true, want: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv(EnvLogFilter, tt.value)
			} else {
				t.Setenv(EnvLogFilter, "")
				os.Unsetenv(EnvLogFilter)
			}
			assert.Equal(t, tt.want, consoleLevelFromEnv())
		})
	}
}

func TestInit_ConsoleOnly(t *testing.T) {
	guard, err := Init("")
	require.NoError(t, err)

	// No file sink was requested, so there is nothing to guard.
	assert.Nil(t, guard)
	assert.Equal(t, "", guard.Path())
	assert.NoError(t, guard.Close())
}

func TestInit_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	guard, err := Init(path)
	require.NoError(t, err)
	require.NotNil(t, guard)
	assert.Equal(t, path, guard.Path())

	zap.L().Info("hello from the test", zap.String("key", "value"))
	zap.L().Debug("file sink keeps debug records")
	require.NoError(t, guard.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var messages []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record),
			"every line must be one JSON record")
		messages = append(messages, record["msg"].(string))

		// Full event detail: run id, timestamp and source location.
		assert.NotEmpty(t, record["run_id"])
		assert.NotEmpty(t, record["timestamp"])
		assert.NotEmpty(t, record["caller"])
	}
	require.NoError(t, scanner.Err())

	// The open record, both test records, the debug record and the final
	// log-complete record are all present.
	assert.Contains(t, messages, "Writing log file")
	assert.Contains(t, messages, "hello from the test")
	assert.Contains(t, messages, "file sink keeps debug records")
	assert.Contains(t, messages, "Wrote log file")
}

func TestInit_FileSinkBadLocation(t *testing.T) {
	_, err := Init(filepath.Join(t.TempDir(), "missing", "run.log"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "log file could not be created")
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, os.ErrClosed
}

func TestGuard_CloseReportsFlushError(t *testing.T) {
	guard := &Guard{
		writer: NewBufferedWriter(brokenWriter{}, 4),
		path:   "run.log",
	}
	_, err := guard.writer.Write([]byte("{}\n"))
	require.NoError(t, err)

	// The failed flush surfaces instead of vanishing at process exit.
	assert.ErrorIs(t, guard.Close(), os.ErrClosed)
}

func TestSpan_EmitsLifecycleRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "span.log")

	guard, err := Init(path)
	require.NoError(t, err)

	span := BeginSpan("subcommand", zap.String("name", "list"))
	span.End(nil)
	require.NoError(t, guard.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "span start")
	assert.Contains(t, string(data), "span end")
	assert.Contains(t, string(data), "span close")
}
