// CodeTrack - time tracking for coursework and side projects.
package main

import (
	"os"

	"github.com/manav03panchal/codetrack/cmd"
	"github.com/manav03panchal/codetrack/internal/runtime"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(runtime.ExitCode(err))
	}
}
