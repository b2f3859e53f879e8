package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// esp-idf partition tables exist in two encodings: the CSV source form and
// the flashed binary form (32-byte entries). ParsePartitionTable accepts
// either and normalizes to the same structure.

const (
	partitionEntrySize = 32
	partitionMaxSize   = 0xC00

	// Entry magics in the binary encoding.
	partitionMagic = 0x50AA
	md5Magic       = 0xEBEB

	// Partition types.
	PartitionTypeApp  = 0x00
	PartitionTypeData = 0x01
)

// Partition is one row of an esp-idf partition table.
type Partition struct {
	Name    string
	Type    uint8
	SubType uint8
	Offset  uint32
	Size    uint32
	Flags   uint32
}

// PartitionTable is a parsed esp-idf partition table.
type PartitionTable struct {
	Partitions []Partition
}

// ParsePartitionTable parses either encoding of an esp-idf partition table.
// The binary form is detected by its entry magic; everything else is treated
// as CSV source.
func ParsePartitionTable(data []byte) (*PartitionTable, error) {
	if len(data) >= 2 && binary.LittleEndian.Uint16(data[:2]) == partitionMagic {
		return parseBinaryPartitionTable(data)
	}
	return parseCSVPartitionTable(data)
}

func parseBinaryPartitionTable(data []byte) (*PartitionTable, error) {
	if len(data) > partitionMaxSize {
		return nil, fmt.Errorf("partition table exceeds maximum size of %#x bytes", partitionMaxSize)
	}

	table := &PartitionTable{}
	for off := 0; off+partitionEntrySize <= len(data); off += partitionEntrySize {
		entry := data[off : off+partitionEntrySize]

		// 0xFF padding marks the end of the table.
		if bytes.Equal(entry, bytes.Repeat([]byte{0xFF}, partitionEntrySize)) {
			break
		}

		magic := binary.LittleEndian.Uint16(entry[:2])
		if magic == md5Magic {
			continue
		}
		if magic != partitionMagic {
			return nil, fmt.Errorf("entry at offset %#x has invalid magic %#04x", off, magic)
		}

		table.Partitions = append(table.Partitions, Partition{
			Type:    entry[2],
			SubType: entry[3],
			Offset:  binary.LittleEndian.Uint32(entry[4:8]),
			Size:    binary.LittleEndian.Uint32(entry[8:12]),
			Name:    string(bytes.TrimRight(entry[12:28], "\x00")),
			Flags:   binary.LittleEndian.Uint32(entry[28:32]),
		})
	}

	if len(table.Partitions) == 0 {
		return nil, fmt.Errorf("partition table contains no entries")
	}
	return table, nil
}

var partitionSubTypes = map[string]uint8{
	"factory":  0x00,
	"ota":      0x00,
	"phy":      0x01,
	"nvs":      0x02,
	"coredump": 0x03,
	"nvs_keys": 0x04,
	"test":     0x20,
	"esphttpd": 0x80,
	"fat":      0x81,
	"spiffs":   0x82,
}

func parseCSVPartitionTable(data []byte) (*PartitionTable, error) {
	table := &PartitionTable{}

	for i, line := range strings.Split(string(data), "\n") {
		lineno := i + 1
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 5 {
			return nil, fmt.Errorf("line %d: expected at least 5 fields, got %d", lineno, len(fields))
		}
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}

		name := fields[0]
		if name == "" {
			return nil, fmt.Errorf("line %d: partition name is empty", lineno)
		}
		if len(name) > 16 {
			return nil, fmt.Errorf("line %d: partition name %q exceeds 16 characters", lineno, name)
		}

		ptype, err := parsePartitionType(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}

		subtype, err := parsePartitionSubType(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}

		var offset uint64
		if fields[3] != "" {
			offset, err = parsePartitionNumber(fields[3])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid offset: %w", lineno, err)
			}
		}

		size, err := parsePartitionNumber(fields[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid size: %w", lineno, err)
		}

		var flags uint32
		if len(fields) > 5 && fields[5] != "" {
			for _, flag := range strings.Split(fields[5], ":") {
				switch strings.TrimSpace(flag) {
				case "encrypted":
					flags |= 0x1
				case "readonly":
					flags |= 0x2
				default:
					return nil, fmt.Errorf("line %d: unknown flag %q", lineno, flag)
				}
			}
		}

		table.Partitions = append(table.Partitions, Partition{
			Name:    name,
			Type:    ptype,
			SubType: subtype,
			Offset:  uint32(offset),
			Size:    uint32(size),
			Flags:   flags,
		})
	}

	if len(table.Partitions) == 0 {
		return nil, fmt.Errorf("partition table contains no entries")
	}
	return table, nil
}

func parsePartitionType(s string) (uint8, error) {
	switch s {
	case "app":
		return PartitionTypeApp, nil
	case "data":
		return PartitionTypeData, nil
	}
	value, err := parsePartitionNumber(s)
	if err != nil || value > 0xFF {
		return 0, fmt.Errorf("invalid partition type %q", s)
	}
	return uint8(value), nil
}

func parsePartitionSubType(s string) (uint8, error) {
	if sub, ok := partitionSubTypes[s]; ok {
		return sub, nil
	}
	if strings.HasPrefix(s, "ota_") {
		slot, err := strconv.ParseUint(s[4:], 10, 8)
		if err == nil && slot < 16 {
			return uint8(0x10 + slot), nil
		}
	}
	value, err := parsePartitionNumber(s)
	if err != nil || value > 0xFF {
		return 0, fmt.Errorf("invalid partition subtype %q", s)
	}
	return uint8(value), nil
}

// parsePartitionNumber accepts decimal, 0x-prefixed hexadecimal, and the
// K/M size suffixes used in partition CSV files.
func parsePartitionNumber(s string) (uint64, error) {
	multiplier := uint64(1)
	switch {
	case strings.HasSuffix(s, "K") || strings.HasSuffix(s, "k"):
		multiplier = 1024
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M") || strings.HasSuffix(s, "m"):
		multiplier = 1024 * 1024
		s = s[:len(s)-1]
	}
	value, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return value * multiplier, nil
}
