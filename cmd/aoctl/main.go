// Command aoctl is the operator CLI for a running aoserver's admin API.
package main

import (
	"fmt"
	"os"

	"github.com/aoserver/aoserver/cmd/aoctl/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
