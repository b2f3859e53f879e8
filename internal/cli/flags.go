package cli

import (
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/probekit/probekit/internal/format"
	"github.com/probekit/probekit/internal/probe"
	"github.com/probekit/probekit/internal/target"
)

var (
	registryOnce sync.Once
	registry     *target.Registry
	registryErr  error
)

// targetRegistry loads the built-in chip registry once per process.
func targetRegistry() (*target.Registry, error) {
	registryOnce.Do(func() {
		registry, registryErr = target.Load()
	})
	return registry, registryErr
}

func addProbeFlags(cmd *cobra.Command) {
	cmd.Flags().String("probe", "", "probe selector in VID:PID or VID:PID:SERIAL form")
	cmd.Flags().String("chip", "", "chip name of the connected target")
}

func selectProbe(cmd *cobra.Command) (probe.Probe, error) {
	selector, _ := cmd.Flags().GetString("probe")
	return lister.Select(cmd.Context(), selector)
}

func selectTarget(cmd *cobra.Command) (target.Target, error) {
	chip, _ := cmd.Flags().GetString("chip")
	if chip == "" {
		// No declared target; the resolver falls through to its defaults.
		return target.Target{}, nil
	}
	reg, err := targetRegistry()
	if err != nil {
		return target.Target{}, err
	}
	return reg.Lookup(chip)
}

func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "binary format of the image (bin, hex, elf, idf, uf2)")
	cmd.Flags().String("base-address", "", "address the binary is written to (bin format only)")
	cmd.Flags().Uint32("skip", 0, "bytes to skip at the start of the binary file (bin format only)")
	cmd.Flags().String("idf-bootloader", "", "path to the idf bootloader image")
	cmd.Flags().String("idf-partition-table", "", "path to the idf partition table")
}

// formatOptions layers format inputs: the config file's format section is
// the base, flags set on the command line override it. Unknown format tags
// are rejected here, before resolution.
func formatOptions(cmd *cobra.Command) (format.Options, error) {
	opts, err := format.OptionsFromConfig(viper.GetViper())
	if err != nil {
		return format.Options{}, err
	}

	if cmd.Flags().Changed("format") {
		tag, _ := cmd.Flags().GetString("format")
		if _, err := format.ParseKind(tag); err != nil {
			return format.Options{}, err
		}
		opts.Format = tag
	}
	if cmd.Flags().Changed("base-address") {
		raw, _ := cmd.Flags().GetString("base-address")
		addr, err := format.ParseAddress(raw)
		if err != nil {
			return format.Options{}, err
		}
		opts.BaseAddress = &addr
	}
	if cmd.Flags().Changed("skip") {
		opts.Skip, _ = cmd.Flags().GetUint32("skip")
	}
	if cmd.Flags().Changed("idf-bootloader") {
		opts.IdfBootloader, _ = cmd.Flags().GetString("idf-bootloader")
	}
	if cmd.Flags().Changed("idf-partition-table") {
		opts.IdfPartitionTable, _ = cmd.Flags().GetString("idf-partition-table")
	}
	return opts, nil
}

// resolveFormat combines the layered format options with the target's
// declared default into the one concrete format for this invocation.
func resolveFormat(cmd *cobra.Command, t target.Target) (format.Resolved, error) {
	opts, err := formatOptions(cmd)
	if err != nil {
		return format.Resolved{}, err
	}
	return opts.Resolve(t.DefaultFormat)
}
