// Command rbparse lexes and parses Ruby source.
package main

import (
	"os"

	"github.com/alexisbouchez/rbparse/cmd/rbparse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
