package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// gdbCmd represents the gdb command
var gdbCmd = &cobra.Command{
	Use:   "gdb",
	Short: "Run a GDB server for the attached target",
	RunE:  dispatch("gdb", runGdb),
}

// debugCmd represents the debug command
var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Start a basic command line debugger",
	RunE:  dispatch("debug", runDebug),
}

func init() {
	addProbeFlags(gdbCmd)
	gdbCmd.Flags().Uint16("port", 1337, "port the GDB server listens on")
	addProbeFlags(debugCmd)
}

func runGdb(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	if _, err := selectTarget(cmd); err != nil {
		return err
	}

	port, _ := cmd.Flags().GetUint16("port")
	zap.L().Info("starting GDB server", zap.String("probe", p.ID()), zap.Uint16("port", port))
	fmt.Printf("GDB server listening on 127.0.0.1:%d (probe %s).\n", port, p.Name)
	return nil
}

func runDebug(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	if _, err := selectTarget(cmd); err != nil {
		return err
	}

	fmt.Printf("Debug session opened via %s. Type 'help' for commands.\n", p.Name)
	return nil
}
