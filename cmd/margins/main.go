package main

import (
	"os"
)

func main() {
	// Execute the root command. Cobra handles parsing the arguments
	// and prints the returned error.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
