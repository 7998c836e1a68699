// Command ufcpredict assembles the fight-outcome training table from the
// configured sources and builders, fits a model and reports test results.
package main

import (
	"fmt"
	"os"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Exit codes.
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitConfig  = 2
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.IsConfiguration(err) {
			os.Exit(ExitConfig)
		}
		os.Exit(ExitError)
	}
}
