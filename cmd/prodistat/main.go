// Command prodistat summarizes university admission records per study
// program: applicants, admissions, rates, competition and popularity.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spektr-org/prodistat/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, engine.ErrDataUnavailable) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
