package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// benchmarkCmd represents the benchmark command
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Measure the throughput of the selected debug probe",
	RunE:  dispatch("benchmark", runBenchmark),
}

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile <path>",
	Short: "Profile on-target runtime performance of a target ELF program",
	Args:  cobra.ExactArgs(1),
	RunE:  dispatch("profile", runProfile),
}

func init() {
	addProbeFlags(benchmarkCmd)
	benchmarkCmd.Flags().Uint32("iterations", 16, "number of read/write rounds to time")
	addProbeFlags(profileCmd)
	addFormatFlags(profileCmd)
	profileCmd.Flags().Uint32("duration", 30, "duration of the profile run in seconds")
	profileCmd.Flags().Uint32("limit", 25, "number of hottest functions to report")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	if _, err := selectTarget(cmd); err != nil {
		return err
	}

	iterations, _ := cmd.Flags().GetUint32("iterations")
	fmt.Printf("Benchmarking %s over %d iterations.\n", p.Name, iterations)
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	p, err := selectProbe(cmd)
	if err != nil {
		return err
	}
	if _, err := prepareImage(cmd, args[0]); err != nil {
		return err
	}

	duration, _ := cmd.Flags().GetUint32("duration")
	limit, _ := cmd.Flags().GetUint32("limit")
	fmt.Printf("Profiling %s via %s for %ds (top %d functions).\n", args[0], p.Name, duration, limit)
	return nil
}
