package main

import (
	"os"

	"github.com/goliatone/go-telematics/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
