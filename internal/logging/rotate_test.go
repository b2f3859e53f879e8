package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLogFile(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	return path
}

func TestPrune_KeepsMostRecent(t *testing.T) {
	dir := t.TempDir()

	// 25 log files with distinct ages; index 0 is the most recent.
	var paths []string
	for i := 0; i < 25; i++ {
		paths = append(paths, writeLogFile(t, dir, fmt.Sprintf("%d.log", 1000-i), time.Duration(i)*time.Minute))
	}

	require.NoError(t, Prune(dir))

	for i, path := range paths {
		_, err := os.Stat(path)
		if i < MaxLogFiles {
			assert.NoError(t, err, "recent file %s should survive", path)
		} else {
			assert.True(t, os.IsNotExist(err), "old file %s should be removed", path)
		}
	}
}

func TestPrune_IgnoresOtherSuffixes(t *testing.T) {
	dir := t.TempDir()

	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("keep"), 0644))
	ancient := time.Now().Add(-1000 * time.Hour)
	require.NoError(t, os.Chtimes(other, ancient, ancient))

	for i := 0; i < MaxLogFiles+5; i++ {
		writeLogFile(t, dir, fmt.Sprintf("%d.log", i), time.Duration(i)*time.Minute)
	}

	require.NoError(t, Prune(dir))

	// Non-log files are never rotation candidates regardless of age.
	_, err := os.Stat(other)
	assert.NoError(t, err)
}

func TestPrune_UnderLimitLeavesEverything(t *testing.T) {
	dir := t.TempDir()

	var paths []string
	for i := 0; i < 5; i++ {
		paths = append(paths, writeLogFile(t, dir, fmt.Sprintf("%d.log", i), time.Duration(i)*time.Minute))
	}

	require.NoError(t, Prune(dir))

	for _, path := range paths {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestPrune_TimestampTieBreaksByName(t *testing.T) {
	dir := t.TempDir()

	stamp := time.Now().Add(-time.Hour)
	var paths []string
	for i := 0; i < MaxLogFiles+3; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%03d.log", i))
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
		require.NoError(t, os.Chtimes(path, stamp, stamp))
		paths = append(paths, path)
	}

	require.NoError(t, Prune(dir))

	// Names sort descending on equal timestamps, so the lowest-numbered
	// files are the pruned ones.
	for i, path := range paths {
		_, err := os.Stat(path)
		if i < 3 {
			assert.True(t, os.IsNotExist(err), "%s should be removed", path)
		} else {
			assert.NoError(t, err, "%s should survive", path)
		}
	}
}

func TestPrune_MissingDirectory(t *testing.T) {
	err := Prune(filepath.Join(t.TempDir(), "does-not-exist"))

	assert.Error(t, err)
}
