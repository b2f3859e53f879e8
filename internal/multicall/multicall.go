// Package multicall detects alternate tool identities of the probekit binary.
//
// probekit is a multicall binary: invoked as (or told to act as) one of its
// aliases, it hands the invocation to that alias's own parser and the normal
// bootstrap pipeline never runs.
package multicall

import (
	"path/filepath"
	"strings"
)

// Aliases lists the recognized alternate identities in priority order.
var Aliases = []string{"probe-flash", "probe-embed"}

// Check reports whether the argument vector selects the given alias, either
// by executable basename or by first argument. On a basename match the full
// vector is returned unchanged; on a first-argument match the alias token is
// stripped. Returns nil when the invocation does not match.
func Check(args []string, want string) []string {
	if len(args) == 0 {
		return nil
	}

	stem := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	if stem == want {
		return args
	}

	if len(args) > 1 && args[1] == want {
		return args[1:]
	}

	return nil
}

// Match runs Check against every known alias in priority order and returns
// the first hit along with the rewritten argument vector.
func Match(args []string) (alias string, rewritten []string, ok bool) {
	for _, candidate := range Aliases {
		if rest := Check(args, candidate); rest != nil {
			return candidate, rest, true
		}
	}
	return "", nil, false
}
