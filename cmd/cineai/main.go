package main

import (
	"os"

	"github.com/temcen/cineai/cmd/cineai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
