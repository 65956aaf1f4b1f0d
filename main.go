package main

import (
	"os"

	"github.com/custodia-labs/attest-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
