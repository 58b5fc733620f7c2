package main

import (
	"os"

	"github.com/abhisek/algoquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
