// Package clock captures the process's local UTC offset.
package clock

import (
	"time"

	"github.com/probekit/probekit/pkg/errors"
)

// Offset is the local UTC offset captured once at startup. It is passed to
// subcommands that render target timestamps so they never re-resolve local
// time after additional goroutines exist.
type Offset struct {
	Zone    string
	Seconds int
}

// CaptureLocal resolves the machine's current UTC offset. It must be called
// at the very start of execution, while the process is effectively
// single-threaded: the timezone database and TZ environment lookups behind
// time.Local are only guaranteed stable before anything else touches them.
// An indeterminate zone is fatal, there is no point retrying once the
// process has moved on.
func CaptureLocal() (Offset, error) {
	name, seconds := time.Now().Zone()
	if name == "" {
		return Offset{}, errors.NewEnvironmentError(
			"failed to determine local time offset for timestamps", nil)
	}
	return Offset{Zone: name, Seconds: seconds}, nil
}

// Apply shifts a UTC instant into the captured local offset.
func (o Offset) Apply(t time.Time) time.Time {
	return t.In(time.FixedZone(o.Zone, o.Seconds))
}
