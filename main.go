package main

import (
	"os"

	"github.com/kerebel/colony/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
