// main package for the cognomegafx command-line client.
package main

import (
	"os"

	"github.com/Bharath-kolekar/cognomegafxg/cmd/cognomegafx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
