package main

import (
	"os"

	"github.com/e-illusion/ICPT-S/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
