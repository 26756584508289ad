// ABOUTME: Main entry point for the shelf command-line tool
// ABOUTME: Renders the reading, writing and featured widgets and refreshes the bundled snapshot

package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
