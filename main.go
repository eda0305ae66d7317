package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/openkraft/domainlint/internal/adapters/inbound/cli"
)

func main() {
	err := cli.Execute()
	if err != nil && !errors.Is(err, cli.ErrViolationsFound) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.ExitCode(err))
}
