// Command model-mapper transforms entity graphs with declarative mapping rules.
package main

import (
	"os"

	"model-mapper/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
