// Package main is the entry point for the doxa CLI.
package main

import (
	"os"

	"github.com/jmylchreest/doxa/cmd/doxa/commands"
)

func main() {
	os.Exit(commands.Run(os.Args[1:], os.Stdout, os.Stderr))
}
