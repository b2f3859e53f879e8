// Package probe enumerates connected debug probes.
package probe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/probekit/probekit/pkg/errors"
)

// Probe identifies one connected debug probe.
type Probe struct {
	Name      string
	VendorID  uint16
	ProductID uint16
	Serial    string
}

// ID renders the probe selector in VID:PID[:SERIAL] form.
func (p Probe) ID() string {
	if p.Serial != "" {
		return fmt.Sprintf("%04x:%04x:%s", p.VendorID, p.ProductID, p.Serial)
	}
	return fmt.Sprintf("%04x:%04x", p.VendorID, p.ProductID)
}

// knownProbes maps USB VID/PID pairs to the debug probes we recognize.
var knownProbes = map[[2]uint16]string{
	{0x0483, 0x3748}: "ST-LINK/V2",
	{0x0483, 0x374b}: "ST-LINK/V2-1",
	{0x0483, 0x374e}: "ST-LINK/V3",
	{0x1366, 0x0101}: "J-Link",
	{0x1366, 0x1051}: "J-Link OB",
	{0x2e8a, 0x000c}: "Raspberry Pi Debug Probe",
	{0x03eb, 0x2141}: "Atmel-ICE",
	{0xc251, 0xf001}: "CMSIS-DAP",
	{0x1209, 0x4853}: "Black Magic Probe",
}

// Lister enumerates debug probes. It is shared by every subcommand and
// performs a single synchronous enumeration pass per call; there is no
// background monitoring in a one-shot CLI.
type Lister struct {
	sysfsRoot string
}

// NewLister creates a Lister over the host USB device tree.
func NewLister() *Lister {
	return &Lister{sysfsRoot: "/sys/bus/usb/devices"}
}

// List returns every recognized debug probe currently connected. Devices
// whose attributes cannot be read are skipped.
func (l *Lister) List(ctx context.Context) []Probe {
	dirents, err := os.ReadDir(l.sysfsRoot)
	if err != nil {
		return nil
	}

	var probes []Probe
	for _, dirent := range dirents {
		if ctx.Err() != nil {
			return probes
		}
		dev := filepath.Join(l.sysfsRoot, dirent.Name())
		vid, ok := readHexAttr(dev, "idVendor")
		if !ok {
			continue
		}
		pid, ok := readHexAttr(dev, "idProduct")
		if !ok {
			continue
		}
		name, ok := knownProbes[[2]uint16{vid, pid}]
		if !ok {
			continue
		}
		probes = append(probes, Probe{
			Name:      name,
			VendorID:  vid,
			ProductID: pid,
			Serial:    readStringAttr(dev, "serial"),
		})
	}
	return probes
}

// Select picks a probe by VID:PID[:SERIAL] selector, or the only connected
// probe when the selector is empty.
func (l *Lister) Select(ctx context.Context, selector string) (Probe, error) {
	probes := l.List(ctx)
	if len(probes) == 0 {
		return Probe{}, errors.NewProbeError("no debug probes were found", nil)
	}

	if selector == "" {
		if len(probes) > 1 {
			return Probe{}, errors.NewProbeError(
				fmt.Sprintf("%d debug probes were found, select one with --probe", len(probes)), nil)
		}
		return probes[0], nil
	}

	vid, pid, serial, err := parseSelector(selector)
	if err != nil {
		return Probe{}, err
	}
	for _, p := range probes {
		if p.VendorID == vid && p.ProductID == pid && (serial == "" || p.Serial == serial) {
			return p, nil
		}
	}
	return Probe{}, errors.NewProbeError(
		fmt.Sprintf("no connected probe matches %q", selector), nil)
}

func parseSelector(selector string) (vid, pid uint16, serial string, err error) {
	parts := strings.SplitN(selector, ":", 3)
	if len(parts) < 2 {
		return 0, 0, "", errors.NewConfigError(
			fmt.Sprintf("invalid probe selector %q (expected VID:PID or VID:PID:SERIAL)", selector), nil)
	}
	v, verr := strconv.ParseUint(parts[0], 16, 16)
	p, perr := strconv.ParseUint(parts[1], 16, 16)
	if verr != nil || perr != nil {
		return 0, 0, "", errors.NewConfigError(
			fmt.Sprintf("invalid probe selector %q (expected VID:PID or VID:PID:SERIAL)", selector), nil)
	}
	if len(parts) == 3 {
		serial = parts[2]
	}
	return uint16(v), uint16(p), serial, nil
}

func readHexAttr(dev, attr string) (uint16, bool) {
	raw, err := os.ReadFile(filepath.Join(dev, attr))
	if err != nil {
		return 0, false
	}
	value, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(value), true
}

func readStringAttr(dev, attr string) string {
	raw, err := os.ReadFile(filepath.Join(dev, attr))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
