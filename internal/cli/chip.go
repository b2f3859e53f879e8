package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// chipCmd represents the chip command
var chipCmd = &cobra.Command{
	Use:   "chip",
	Short: "Inspect the built-in target registry",
}

var chipListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known chips",
	RunE:  dispatch("chip list", runChipList),
}

var chipInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details for a known chip",
	Args:  cobra.ExactArgs(1),
	RunE:  dispatch("chip info", runChipInfo),
}

func init() {
	chipCmd.AddCommand(chipListCmd)
	chipCmd.AddCommand(chipInfoCmd)
}

func runChipList(cmd *cobra.Command, args []string) error {
	reg, err := targetRegistry()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Name", "Vendor", "Cores", "Flash (KiB)", "RAM (KiB)"})
	for _, chip := range reg.All() {
		t.AppendRow(table.Row{chip.Name, chip.Vendor, chip.Cores, chip.FlashKB, chip.RAMKB})
	}
	t.Render()
	return nil
}

func runChipInfo(cmd *cobra.Command, args []string) error {
	reg, err := targetRegistry()
	if err != nil {
		return err
	}
	chip, err := reg.Lookup(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Name:           %s\n", chip.Name)
	fmt.Printf("Vendor:         %s\n", chip.Vendor)
	fmt.Printf("Cores:          %d\n", chip.Cores)
	fmt.Printf("Flash:          %d KiB\n", chip.FlashKB)
	fmt.Printf("RAM:            %d KiB\n", chip.RAMKB)
	if chip.DefaultFormat != "" {
		fmt.Printf("Default format: %s\n", chip.DefaultFormat)
	}
	return nil
}
