package main

import (
	"fmt"
	"os"

	"github.com/temirov/pathlint/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the pathlint command-line application.
func main() {
	executionError := cli.Execute()
	if cli.ShouldReportError(executionError) {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(cli.ExitCode(executionError))
}
