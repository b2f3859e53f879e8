package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/probekit/probekit/internal/format"
)

// traceCmd represents the trace command
var traceCmd = &cobra.Command{
	Use:   "trace <address>",
	Short: "Trace a memory location on the target",
	Args:  cobra.ExactArgs(1),
	RunE:  dispatch("trace", runTrace),
}

// itmCmd represents the itm command
var itmCmd = &cobra.Command{
	Use:   "itm",
	Short: "Configure and monitor ITM trace packets from the target",
	RunE:  dispatch("itm", runItm),
}

func init() {
	addProbeFlags(traceCmd)
	traceCmd.Flags().Duration("duration", 5*time.Second, "how long to trace")
	addProbeFlags(itmCmd)
	itmCmd.Flags().Uint32("clk", 16_000_000, "speed of the target's debug clock in Hz")
	itmCmd.Flags().Uint32("baud", 2_000_000, "SWO baud rate in Hz")
}

func runTrace(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	addr, err := format.ParseAddress(args[0])
	if err != nil {
		return err
	}

	duration, _ := cmd.Flags().GetDuration("duration")
	fmt.Printf("Tracing %#x via %s for %s.\n", addr, p.Name, duration)
	return nil
}

func runItm(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}

	clk, _ := cmd.Flags().GetUint32("clk")
	baud, _ := cmd.Flags().GetUint32("baud")
	fmt.Printf("ITM monitoring via %s (clk %d Hz, baud %d Hz).\n", p.Name, clk, baud)
	return nil
}
