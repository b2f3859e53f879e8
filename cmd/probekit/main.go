// Package main is the entry point for the probekit CLI
package main

import (
	"fmt"
	"os"

	"github.com/probekit/probekit/internal/cli"
)

// Version information (set during build)
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func main() {
	cli.SetVersionInfo(Version, BuildDate)

	if err := cli.Execute(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
