// Package main provides the CLI entrypoint for cadence.
//
// Every command reads and writes progress records as JSON so the tool can sit
// in a shell pipeline next to whatever stores the records.
package main

import (
	"os"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
