package main

import (
	"os"

	"github.com/spoadmin/spoadmin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
