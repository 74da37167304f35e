// Package main implements the yogo CLI, a synthesis netlist toolkit.
// It provides commands for loading RTL designs, running the word-width
// reduction pass, and writing BLIF netlists.
package main

import (
	"os"

	"github.com/slowriot/yosys/cmd/yogo/commands"
)

var (
	version = "dev"
)

func main() {
	commands.Version = version

	commands.RootCmd.Flags().BoolP("version", "v", false, "Print version information")
	commands.RootCmd.SetVersionTemplate(`yogo version {{.Version}}
`)
	commands.RootCmd.Version = version

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
