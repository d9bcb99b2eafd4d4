// Pcv is an interactive parallel coordinates viewer.
//
// Each FILE is a CSV table of one time step; all tables must have the same
// shape. See pcv help for commands.
package main

import (
	"os"

	"github.com/charmbracelet/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
