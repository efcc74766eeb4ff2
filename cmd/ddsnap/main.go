// ddsnap CLI - exports Datadog org configuration to local JSON files.
package main

import "github.com/ddsnap/ddsnap/pkg/cli"

// Build-time variables set via ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.BuildDate = buildDate
	cli.Execute()
}
