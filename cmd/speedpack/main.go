// Command speedpack packages a Speedwagon wheel into a standalone
// executable bundle with an OS-native installer.
package main

import (
	"github.com/uiuclibrary/speedpack/internal/cli"
)

// Build-time variables injected via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2026-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
