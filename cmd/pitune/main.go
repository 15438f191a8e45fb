// Package main provides the entry point for the pitune Raspberry Pi
// performance tuner CLI.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
