package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/probekit/probekit/pkg/errors"
)

// The multicall aliases own the whole invocation once matched: they parse
// the rewritten argument vector with their own commands and never touch the
// shared logging or format pipeline.

func runAlias(alias string, args []string) error {
	var cmd *cobra.Command
	switch alias {
	case "probe-flash":
		cmd = newFlashAliasCmd()
	case "probe-embed":
		cmd = newEmbedAliasCmd()
	default:
		return errors.NewConfigError(fmt.Sprintf("unknown multicall alias %q", alias), nil)
	}
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

// newFlashAliasCmd builds the probe-flash identity: flash an image and exit.
func newFlashAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "probe-flash <path>",
		Short:         "Flash an image to the attached target",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return errors.NewIOError("image file could not be read", err).WithPath(args[0])
			}
			chip, _ := cmd.Flags().GetString("chip")
			fmt.Printf("Flashing %s (chip %s).\n", args[0], chip)
			return nil
		},
	}
	cmd.Flags().String("chip", "", "chip name of the connected target")
	cmd.Flags().String("probe", "", "probe selector in VID:PID or VID:PID:SERIAL form")
	return cmd
}

// newEmbedAliasCmd builds the probe-embed identity: flash, then stay
// attached to RTT output.
func newEmbedAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "probe-embed <path>",
		Short:         "Flash an image and attach to RTT output",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return errors.NewIOError("image file could not be read", err).WithPath(args[0])
			}
			fmt.Printf("Flashing %s and attaching to RTT.\n", args[0])
			return nil
		},
	}
	cmd.Flags().String("chip", "", "chip name of the connected target")
	cmd.Flags().String("probe", "", "probe selector in VID:PID or VID:PID:SERIAL form")
	return cmd
}
