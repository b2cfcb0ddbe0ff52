// SpecAlign - Spectral alignment and library search tool
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/SpecAlign/cmd/specalign/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
