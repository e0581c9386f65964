// Command brewlab generates and plays seeded alchemy deduction puzzles.
package main

import (
	"os"

	"github.com/roach88/brewlab/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
