// Command minidsl parses, canonicalizes and stores boolean filter expressions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/minidsl/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
