package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/renwickholm/starkverify/internal/cli"
	"github.com/renwickholm/starkverify/internal/reduce"
	"github.com/renwickholm/starkverify/internal/scarb"
	"github.com/renwickholm/starkverify/pkg/client"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		printSuggestions(err)
		os.Exit(1)
	}
}

// printSuggestions adds recovery hints for failures the user can act on.
func printSuggestions(err error) {
	var buildErr *scarb.BuildError
	var compErr *client.CompilationError
	var verErr *client.VerificationError

	switch {
	case errors.Is(err, reduce.ErrBuildSelfCheck) && errors.As(err, &buildErr):
		fmt.Fprintln(os.Stderr, "\nThe reduced project did not compile, so nothing was submitted.")
		fmt.Fprintln(os.Stderr, "Run 'scarb build' on the original project to reproduce the diagnostics.")
	case errors.As(err, &compErr):
		fmt.Fprintln(os.Stderr, "\nSuggestions:")
		fmt.Fprintln(os.Stderr, "  - Check your Cairo syntax for errors")
		fmt.Fprintln(os.Stderr, "  - Verify all dependencies are properly declared")
		fmt.Fprintln(os.Stderr, "  - Run 'scarb build' locally to debug compilation issues")
	case errors.As(err, &verErr):
		fmt.Fprintln(os.Stderr, "\nSuggestions:")
		fmt.Fprintln(os.Stderr, "  - Verify the class hash matches your contract")
		fmt.Fprintln(os.Stderr, "  - Ensure you're using the correct network")
	}
}
