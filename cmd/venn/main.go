package main

import (
	"os"

	"github.com/msto63/venn/cmd/venn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
