package main

import (
	"github.com/HannahMarsh/monte_carlo_geometry/cmd/simulation/commands"
	"os"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
