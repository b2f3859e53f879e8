package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all connected debug probes",
	RunE:  dispatch("list", runList),
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show info about the selected debug probe and connected target",
	RunE:  dispatch("info", runInfo),
}

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the target attached to the selected debug probe",
	RunE:  dispatch("reset", runReset),
}

func init() {
	addProbeFlags(infoCmd)
	addProbeFlags(resetCmd)
	resetCmd.Flags().Bool("hardware", false, "toggle the hardware reset pin instead of a core reset")
}

func runList(cmd *cobra.Command, args []string) error {
	probes := lister.List(cmd.Context())
	if len(probes) == 0 {
		fmt.Println("No debug probes were found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Name", "VID:PID", "Serial"})
	for i, p := range probes {
		t.AppendRow(table.Row{i, p.Name, fmt.Sprintf("%04x:%04x", p.VendorID, p.ProductID), p.Serial})
	}
	t.Render()
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	zap.L().Info("probe selected", zap.String("probe", p.ID()))

	fmt.Printf("Probe:  %s\n", p.Name)
	fmt.Printf("ID:     %s\n", p.ID())

	chip, err := selectTarget(cmd)
	if err != nil {
		return err
	}
	if chip.Name != "" {
		fmt.Printf("Target: %s (%s, %d core(s), %d KiB flash, %d KiB RAM)\n",
			chip.Name, chip.Vendor, chip.Cores, chip.FlashKB, chip.RAMKB)
	}
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	if _, err := selectTarget(cmd); err != nil {
		return err
	}

	hardware, _ := cmd.Flags().GetBool("hardware")
	kind := "core"
	if hardware {
		kind = "hardware"
	}
	zap.L().Info("resetting target", zap.String("probe", p.ID()), zap.String("kind", kind))
	fmt.Printf("Target reset (%s) issued via %s.\n", kind, p.Name)
	return nil
}
