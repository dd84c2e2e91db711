package main

import (
	"os"

	"github.com/crosshare-org/crosshare/cmd/crossfill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
