package main

import (
	"fmt"
	"os"

	"github.com/scbrown/hiitfit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hf:", err)
		os.Exit(1)
	}
}
