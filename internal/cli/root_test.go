package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probekit/probekit/internal/probe"
)

// resetBootstrapState clears the per-process invocation state so each test
// observes a fresh bootstrap.
func resetBootstrapState(t *testing.T) {
	t.Helper()
	restore := func() {
		if logGuard != nil {
			logGuard.Close()
		}
		logGuard = nil
		logFile = ""
		logToFolder = false
		rootCmd.SetArgs(nil)
	}
	restore()
	t.Cleanup(restore)
	lister = probe.NewLister()
}

func defaultLogDirUnder(home string) string {
	return filepath.Join(home, ".probekit", "logs")
}

func TestDapServer_RunsWithoutLoggingPipeline(t *testing.T) {
	resetBootstrapState(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	// --log-to-folder would make the shared pipeline create the default
	// folder and acquire the guard; dap-server must do neither.
	rootCmd.SetArgs([]string{"dap-server", "--log-to-folder"})
	require.NoError(t, rootCmd.Execute())

	assert.Nil(t, logGuard)
	_, err := os.Stat(defaultLogDirUnder(home))
	assert.True(t, os.IsNotExist(err))
}

func TestLoggingPipeline_AcquiresGuardForOrdinaryCommands(t *testing.T) {
	resetBootstrapState(t)
	path := filepath.Join(t.TempDir(), "run.log")

	rootCmd.SetArgs([]string{"list", "--log-file", path})
	require.NoError(t, rootCmd.Execute())

	require.NotNil(t, logGuard)
	assert.Equal(t, path, logGuard.Path())
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestLoggingPipeline_NoFileSinkWithoutFlags(t *testing.T) {
	resetBootstrapState(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	rootCmd.SetArgs([]string{"list"})
	require.NoError(t, rootCmd.Execute())

	// Console-only logging: no guard, no default folder.
	assert.Nil(t, logGuard)
	_, err := os.Stat(defaultLogDirUnder(home))
	assert.True(t, os.IsNotExist(err))
}

func TestExecute_AliasSkipsBootstrap(t *testing.T) {
	resetBootstrapState(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	image := filepath.Join(t.TempDir(), "firmware.elf")
	require.NoError(t, os.WriteFile(image, []byte{0x7f, 'E', 'L', 'F'}, 0644))

	// Basename identity and first-argument identity both hand off before
	// any logging or format setup.
	require.NoError(t, Execute([]string{"probe-flash", image}))
	require.NoError(t, Execute([]string{"probekit", "probe-embed", image}))

	assert.Nil(t, logGuard)
	_, err := os.Stat(defaultLogDirUnder(home))
	assert.True(t, os.IsNotExist(err))
}
