package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/probekit/probekit/pkg/errors"
)

// LogSuffix is the extension shared by all probekit log files.
const LogSuffix = ".log"

// DefaultLogDir returns the per-application data directory holding the
// default log folder.
func DefaultLogDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewEnvironmentError(
			"the application storage directory could not be determined", err)
	}
	return filepath.Join(home, ".probekit", "logs"), nil
}

// DefaultLogPath computes the default log file location for this run:
// <data-dir>/<milliseconds-since-epoch>.log, creating the directory if
// needed. The filename is sanitized so locale or clock oddities can never
// produce a path-traversing or otherwise unsafe name.
func DefaultLogPath(now time.Time) (string, error) {
	dir, err := DefaultLogDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.NewIOError("log directory could not be created", err).WithPath(dir)
	}

	name := SanitizeFilename(fmt.Sprintf("%d%s", now.UnixMilli(), LogSuffix))
	return filepath.Join(dir, name), nil
}

// SanitizeFilename replaces every character that is unsafe in a filename on
// any supported platform with an underscore. The result is never empty.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
			b.WriteRune('_')
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		return "_"
	}
	return out
}
