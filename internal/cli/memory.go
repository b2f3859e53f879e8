package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/probekit/probekit/internal/format"
	"github.com/probekit/probekit/pkg/errors"
)

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read <width> <address> <words>",
	Short: "Read from target memory",
	Args:  cobra.ExactArgs(3),
	RunE:  dispatch("read", runRead),
}

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write <width> <address> <values...>",
	Short: "Write to target memory",
	Args:  cobra.MinimumNArgs(3),
	RunE:  dispatch("write", runWrite),
}

func init() {
	addProbeFlags(readCmd)
	addProbeFlags(writeCmd)
}

func parseWidth(s string) (int, error) {
	switch s {
	case "8":
		return 8, nil
	case "16":
		return 16, nil
	case "32":
		return 32, nil
	case "64":
		return 64, nil
	}
	return 0, errors.NewConfigError(
		fmt.Sprintf("invalid word width %q (expected 8, 16, 32 or 64)", s), nil)
}

func runRead(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	width, err := parseWidth(args[0])
	if err != nil {
		return err
	}
	addr, err := format.ParseAddress(args[1])
	if err != nil {
		return err
	}
	words, err := format.ParseAddress(args[2])
	if err != nil {
		return err
	}

	fmt.Printf("Reading %d x u%d from %#x via %s.\n", words, width, addr, p.Name)
	return nil
}

func runWrite(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	width, err := parseWidth(args[0])
	if err != nil {
		return err
	}
	addr, err := format.ParseAddress(args[1])
	if err != nil {
		return err
	}
	values := args[2:]
	for _, v := range values {
		if _, err := format.ParseAddress(v); err != nil {
			return err
		}
	}

	fmt.Printf("Writing %d x u%d to %#x via %s.\n", len(values), width, addr, p.Name)
	return nil
}
