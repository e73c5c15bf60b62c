package main

import (
	"fmt"
	"os"

	"github.com/KirkDiggler/wargame-mechanics/internal/errors"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitCode(err))
	}
}
