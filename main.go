// Command temoc runs Markdown-embedded decision tables against a
// subprocess system-under-test over the Slim wire protocol.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temoc-ci/temoc/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	return exitCode(cmd.Execute())
}

// exitCode classifies a top-level error into a process exit status
// (0 all-pass, 1 any failure, 2 usage/config error, 3 SUT spawn failure),
// printing the underlying message to stderr along the way.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *cmd.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, exitErr.Err)
		return exitErr.Code
	}

	// Cobra's own usage/flag-parsing errors have no ExitError wrapper.
	fmt.Fprintln(os.Stderr, err)
	return 2
}
