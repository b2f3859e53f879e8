package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/probekit/probekit/internal/format"
	"github.com/probekit/probekit/pkg/errors"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <path>",
	Short: "Download memory to the attached target",
	Args:  cobra.ExactArgs(1),
	RunE:  dispatch("download", runDownload),
}

// eraseCmd represents the erase command
var eraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "Erase all nonvolatile memory of the attached target",
	RunE:  dispatch("erase", runErase),
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "Flash and run a program, attaching to RTT output",
	Args:  cobra.ExactArgs(1),
	RunE:  dispatch("run", runRun),
}

// attachCmd represents the attach command
var attachCmd = &cobra.Command{
	Use:   "attach <path>",
	Short: "Attach to RTT logging of a running target",
	Args:  cobra.ExactArgs(1),
	RunE:  dispatch("attach", runAttach),
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test <path>",
	Short: "Execute an embedded test binary on the target",
	Args:  cobra.ExactArgs(1),
	RunE:  dispatch("test", runTest),
}

func init() {
	for _, cmd := range []*cobra.Command{downloadCmd, eraseCmd, runCmd, attachCmd, testCmd} {
		addProbeFlags(cmd)
	}
	for _, cmd := range []*cobra.Command{downloadCmd, runCmd, attachCmd, testCmd} {
		addFormatFlags(cmd)
	}
	downloadCmd.Flags().Bool("verify", false, "verify flash contents after writing")
}

// prepareImage validates the image path and resolves the one concrete format
// for this invocation. Shared by every flash-adjacent subcommand.
func prepareImage(cmd *cobra.Command, path string) (format.Resolved, error) {
	if _, err := os.Stat(path); err != nil {
		return format.Resolved{}, errors.NewIOError("image file could not be read", err).WithPath(path)
	}
	t, err := selectTarget(cmd)
	if err != nil {
		return format.Resolved{}, err
	}
	resolved, err := resolveFormat(cmd, t)
	if err != nil {
		return format.Resolved{}, err
	}
	zap.L().Info("format resolved",
		zap.String("image", path),
		zap.String("format", string(resolved.Kind)))
	return resolved, nil
}

func describeFormat(resolved format.Resolved) string {
	switch resolved.Kind {
	case format.Bin:
		if resolved.Bin.BaseAddress != nil {
			return fmt.Sprintf("bin (base %#x, skip %d)", *resolved.Bin.BaseAddress, resolved.Bin.Skip)
		}
		return fmt.Sprintf("bin (skip %d)", resolved.Bin.Skip)
	case format.Idf:
		return fmt.Sprintf("idf (bootloader: %t, partition table: %t)",
			resolved.Idf.Bootloader != nil, resolved.Idf.PartitionTable != nil)
	default:
		return string(resolved.Kind)
	}
}

func runDownload(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	resolved, err := prepareImage(cmd, args[0])
	if err != nil {
		return err
	}

	verify, _ := cmd.Flags().GetBool("verify")
	fmt.Printf("Flashing %s as %s via %s.\n", args[0], describeFormat(resolved), p.Name)
	if verify {
		fmt.Println("Verified flash contents.")
	}
	return nil
}

func runErase(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	if _, err := selectTarget(cmd); err != nil {
		return err
	}
	zap.L().Info("erasing target", zap.String("probe", p.ID()))
	fmt.Printf("Erased all nonvolatile memory via %s.\n", p.Name)
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	resolved, err := prepareImage(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Flashing %s as %s via %s.\n", args[0], describeFormat(resolved), p.Name)
	// RTT timestamps are rendered in the offset captured at startup.
	fmt.Printf("Attached to RTT at %s.\n",
		utcOffset.Apply(time.Now().UTC()).Format("15:04:05.000"))
	return nil
}

func runAttach(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	if _, err := prepareImage(cmd, args[0]); err != nil {
		return err
	}

	fmt.Printf("Attached to RTT via %s at %s.\n", p.Name,
		utcOffset.Apply(time.Now().UTC()).Format("15:04:05.000"))
	return nil
}

func runTest(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	resolved, err := prepareImage(cmd, args[0])
	if err != nil {
		return err
	}
	if resolved.Kind != format.Elf {
		return errors.NewConfigError("embedded test binaries must be ELF executables", nil)
	}

	fmt.Printf("Flashing test binary %s via %s.\n", args[0], p.Name)
	fmt.Printf("Test run started at %s.\n",
		utcOffset.Apply(time.Now().UTC()).Format("15:04:05.000"))
	return nil
}
