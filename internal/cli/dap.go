package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// dapServerCmd represents the dap-server command.
//
// The DAP server manages its own diagnostic output: debug adapter clients
// own stdout/stderr framing, so the shared logging pipeline must not touch
// them. Overriding PersistentPreRunE keeps the root's initLogging from
// running for this command; the handler performs its own logger setup and
// the process-wide log file guard is never acquired.
var dapServerCmd = &cobra.Command{
	Use:   "dap-server",
	Short: "Run a Debug Adapter Protocol (DAP) server",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: runDapServer,
}

func init() {
	dapServerCmd.Flags().Uint16("port", 50000, "port the DAP server listens on")
	dapServerCmd.Flags().String("log-dir", "", "directory for DAP session logs")
}

func runDapServer(cmd *cobra.Command, args []string) error {
	port, _ := cmd.Flags().GetUint16("port")
	logDir, _ := cmd.Flags().GetString("log-dir")

	logger, err := dapLogger(logDir)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting DAP server",
		zap.Uint16("port", port),
		zap.String("timezone", utcOffset.Zone))
	fmt.Printf("DAP server listening on 127.0.0.1:%d.\n", port)
	return nil
}

// dapLogger builds the DAP server's private logger. Session logs go to a
// directory of the client's choosing; without one, diagnostics stay on
// stderr only.
func dapLogger(logDir string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if logDir != "" {
		config.OutputPaths = []string{"stderr", filepath.Join(logDir, "dap-server.log")}
	}
	return config.Build()
}
