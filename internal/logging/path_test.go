package logging

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain timestamp name",
			input: "1724400000000.log",
			want:  "1724400000000.log",
		},
		{
			name:  "path separators replaced",
			input: "17244/0000\\0000.log",
			want:  "17244_0000_0000.log",
		},
		{
			name:  "windows-forbidden characters replaced",
			input: `a:b*c?d"e<f>g|h.log`,
			want:  "a_b_c_d_e_f_g_h.log",
		},
		{
			name:  "control characters replaced",
			input: "17\x0024\x1f.log",
			want:  "17_24_.log",
		},
		{
			name:  "empty input yields placeholder",
			input: "",
			want:  "_",
		},
		{
			name:  "dot-dot yields placeholder",
			input: "..",
			want:  "_",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, `\`)
		})
	}
}

func TestDefaultLogPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	now := time.Now()
	path, err := DefaultLogPath(now)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, filepath.Join(home, ".probekit", "logs"), dir)

	// The containing directory exists after resolution.
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Filename is the epoch milliseconds plus the log suffix.
	base := filepath.Base(path)
	assert.True(t, strings.HasSuffix(base, LogSuffix))
	ms, err := strconv.ParseInt(strings.TrimSuffix(base, LogSuffix), 10, 64)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), ms)
}
