// Command aris scores regional behavioural risk from monthly
// identity-update metric tables.
package main

import (
	"os"

	"github.com/roach88/aris/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
