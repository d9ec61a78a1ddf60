package main

import (
	"os"

	"github.com/mimicry-ai/mimic/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
