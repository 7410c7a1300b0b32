// Command pigeistctl provides keyboard control over a pigeist robot.
// It talks to pigeistd via a configured control interface (unix socket or
// TCP), or drives a robot backend in-process with --local.
package main

import (
	"os"

	"github.com/mfulz/pigeist/cmd/pigeistctl/cmd"
	"github.com/mfulz/pigeist/internal/logging"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		logging.Log.Errorf("[pigeistctl] %v", err)
		os.Exit(1)
	}
}
