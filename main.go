package main

import (
	"os"

	"github.com/fleetsense/autocare/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
