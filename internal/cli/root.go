// Package cli implements the command-line interface for probekit
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/probekit/probekit/internal/clock"
	"github.com/probekit/probekit/internal/logging"
	"github.com/probekit/probekit/internal/multicall"
	"github.com/probekit/probekit/internal/probe"
)

var (
	logFile     string
	logToFolder bool

	// Shared invocation state, created once per process by Execute.
	lister    *probe.Lister
	utcOffset clock.Offset
	logGuard  *logging.Guard

	version   string
	buildDate string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "probekit",
	Short: "The probekit CLI",
	Long: `probekit is a multi-command CLI for embedded development: list and
inspect debug probes, flash and erase targets, run firmware with RTT
attached, trace memory, and serve GDB or DAP debug sessions.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initLogging,
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, bd string) {
	version = v
	buildDate = bd
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildDate)
}

// Execute is the process entry point behind main. It owns the bootstrap
// pipeline: multicall detection, UTC offset capture, argument parsing,
// logging setup and subcommand dispatch. The returned error is the first
// fatal condition hit at any stage.
func Execute(args []string) (err error) {
	// Early-exit predicates run before anything else. A matched alias owns
	// the rest of execution; no logging or format setup applies to it.
	if alias, rewritten, ok := multicall.Match(args); ok {
		return runAlias(alias, rewritten)
	}

	// Local time must be resolved while the process is single-threaded;
	// cobra and the logging buffer spawn goroutines later.
	offset, err := clock.CaptureLocal()
	if err != nil {
		return err
	}
	utcOffset = offset
	lister = probe.NewLister()

	initConfig()

	// The guard is assigned during initLogging, after parsing. Closing it
	// here covers every exit path, error returns included; the alias and
	// dap-server paths never acquire it. A lost flush on an otherwise
	// clean run is still a failure worth reporting.
	defer func() {
		if cerr := logGuard.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("flushing log file: %w", cerr)
		}
	}()

	rootCmd.SetArgs(args[1:])
	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("probekit execution failed", zap.Error(err))
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "location for the log file")
	rootCmd.PersistentFlags().BoolVar(&logToFolder, "log-to-folder", false,
		"enable logging to the default log folder (ignored if --log-file is given)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(gdbCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(dapServerCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(eraseCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(itmCmd)
	rootCmd.AddCommand(chipCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(testCmd)
}

// initConfig reads in the config file and PROBEKIT_* environment variables.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".probekit"))
	}
	viper.AddConfigPath("/etc/probekit/")
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	viper.SetEnvPrefix("PROBEKIT")
	viper.AutomaticEnv()

	// Missing config files are fine; the CLI works without one.
	_ = viper.ReadInConfig()
}

// initLogging resolves the log location and installs the logging sinks. It
// runs after parsing and before any subcommand handler. Precedence for the
// file sink: explicit --log-file, then the default folder when
// --log-to-folder is set, otherwise console only.
func initLogging(cmd *cobra.Command, args []string) error {
	location := logFile
	if location == "" && logToFolder {
		path, err := logging.DefaultLogPath(time.Now())
		if err != nil {
			return err
		}
		// Prune before the new file exists so this run's log is never a
		// deletion candidate.
		if err := logging.Prune(filepath.Dir(path)); err != nil {
			return err
		}
		location = path
	}

	guard, err := logging.Init(location)
	if err != nil {
		return err
	}
	logGuard = guard
	return nil
}

// dispatch wraps a subcommand handler with its span start/end markers.
func dispatch(name string, handler func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		span := logging.BeginSpan("subcommand", zap.String("name", name))
		err := handler(cmd, args)
		span.End(err)
		return err
	}
}
