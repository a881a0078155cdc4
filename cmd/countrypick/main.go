// countrypick is a CLI tool that picks a country from a localized, searchable list.
package main

import (
	"github.com/hightemp/countrypick/internal/cli"
)

// Build information (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildTime = buildTime
	cli.Execute()
}
