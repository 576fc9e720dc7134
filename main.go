package main

import (
	"fmt"
	"os"

	"fourree/cmd"
)

func main() {
	// keep main tiny; cmd.Execute implements the full CLI
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fourree: %v\n", err)
		os.Exit(1)
	}
}
