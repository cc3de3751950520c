package main

import (
	"os"

	"github.com/YuminosukeSato/gdlinear/cmd/gdlinear/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
