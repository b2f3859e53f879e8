// Package format resolves the target binary format for flash operations.
//
// A fully parameterized format is produced from three layered sources:
// explicit user options always win, then the target's declared default
// format, then ELF as the hard-coded fallback.
package format

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/probekit/probekit/pkg/errors"
)

// Kind identifies a binary format family.
type Kind string

const (
	// Bin is a raw binary image placed at a base address.
	Bin Kind = "bin"
	// Hex is an Intel HEX image.
	Hex Kind = "hex"
	// Elf is an ELF executable.
	Elf Kind = "elf"
	// Idf is an esp-idf partitioned application image.
	Idf Kind = "idf"
	// Uf2 is a UF2 block image.
	Uf2 Kind = "uf2"
)

// Kinds lists every known format family.
var Kinds = []Kind{Bin, Hex, Elf, Idf, Uf2}

// ParseKind validates a user-supplied format tag, case-insensitively.
// Unknown tags are rejected here, before any resolution runs.
func ParseKind(s string) (Kind, error) {
	tag := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if tag == known {
			return known, nil
		}
	}
	return "", errors.NewConfigError(
		fmt.Sprintf("unknown format %q (expected one of bin, hex, elf, idf, uf2)", s), nil)
}

// Options are the user-supplied format inputs. Every field is independently
// optional; nothing is cross-validated until Resolve runs.
type Options struct {
	Format            string  `mapstructure:"format"`
	BaseAddress       *uint64 `mapstructure:"-"`
	Skip              uint32  `mapstructure:"skip"`
	IdfBootloader     string  `mapstructure:"idf-bootloader"`
	IdfPartitionTable string  `mapstructure:"idf-partition-table"`
}

// OptionsFromConfig loads the "format" section of the configuration.
// Invalid format tags are rejected at load time.
func OptionsFromConfig(v *viper.Viper) (Options, error) {
	var opts Options
	sub := v.Sub("format")
	if sub == nil {
		return opts, nil
	}
	if err := sub.Unmarshal(&opts); err != nil {
		return Options{}, errors.NewConfigError("format configuration could not be decoded", err)
	}
	if base := sub.GetString("base-address"); base != "" {
		addr, err := ParseAddress(base)
		if err != nil {
			return Options{}, err
		}
		opts.BaseAddress = &addr
	}
	if opts.Format != "" {
		if _, err := ParseKind(opts.Format); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

// ParseAddress parses a memory address, accepting decimal and 0x-prefixed
// hexadecimal notation.
func ParseAddress(s string) (uint64, error) {
	var value uint64
	var err error
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		_, err = fmt.Sscanf(trimmed[2:], "%x", &value)
	} else {
		_, err = fmt.Sscanf(trimmed, "%d", &value)
	}
	if err != nil {
		return 0, errors.NewConfigError(fmt.Sprintf("invalid address %q", s), err)
	}
	return value, nil
}

// BinOptions parameterize the raw-binary format.
type BinOptions struct {
	BaseAddress *uint64
	Skip        uint32
}

// IdfOptions parameterize the esp-idf partitioned image format. Both
// artifacts are optional; when present they were loaded eagerly during
// resolution.
type IdfOptions struct {
	Bootloader     []byte
	PartitionTable *PartitionTable
}

// Resolved is the single fully-parameterized format for this invocation.
// Exactly one Kind is set; Bin and Idf carry their family's parameters.
type Resolved struct {
	Kind Kind
	Bin  *BinOptions
	Idf  *IdfOptions
}

// Resolve produces the concrete format from the layered sources. An explicit
// option wins over the target default, which wins over ELF. Format-specific
// artifacts (idf bootloader, partition table) are read from disk here, and a
// missing or malformed file is fatal with the offending path attached.
func (o Options) Resolve(targetDefault Kind) (Resolved, error) {
	kind := targetDefault
	if o.Format != "" {
		parsed, err := ParseKind(o.Format)
		if err != nil {
			return Resolved{}, err
		}
		kind = parsed
	}
	if kind == "" {
		kind = Elf
	}

	switch kind {
	case Bin:
		return Resolved{Kind: Bin, Bin: &BinOptions{
			BaseAddress: o.BaseAddress,
			Skip:        o.Skip,
		}}, nil
	case Idf:
		idf := &IdfOptions{}
		if o.IdfBootloader != "" {
			data, err := os.ReadFile(o.IdfBootloader)
			if err != nil {
				return Resolved{}, errors.NewIOError("idf bootloader could not be read", err).
					WithPath(o.IdfBootloader)
			}
			idf.Bootloader = data
		}
		if o.IdfPartitionTable != "" {
			data, err := os.ReadFile(o.IdfPartitionTable)
			if err != nil {
				return Resolved{}, errors.NewIOError("idf partition table could not be read", err).
					WithPath(o.IdfPartitionTable)
			}
			table, err := ParsePartitionTable(data)
			if err != nil {
				return Resolved{}, errors.NewParseError("idf partition table is malformed", err).
					WithPath(o.IdfPartitionTable)
			}
			idf.PartitionTable = table
		}
		return Resolved{Kind: Idf, Idf: idf}, nil
	default:
		return Resolved{Kind: kind}, nil
	}
}
