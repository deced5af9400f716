// Package main provides the leapslides command.
package main

import (
	"os"

	"github.com/leapstack-labs/leapslides/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
