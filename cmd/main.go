// Package main provides the CLI entrypoint for the Fluense reading
// assessment service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fluense",
		Short: "Reading fluency assessment service",
		Long: `Fluense turns a reference passage, a speech recognition transcript, and
the reading time into a structured assessment: word-level accuracy, speed
metrics, a weighted dyslexia risk score, and practice guidance.

Key commands:
  serve     Run the HTTP assessment service
  assess    Score a single reading from the command line`,
		Example: `  fluense serve
  FLUENSE_ADDR=:9090 fluense serve
  fluense assess --reference "the quick brown fox" --recognized "the quick fox" --elapsed 2.1`,
		SilenceUsage: true,
	}

	root.Version = version
	root.SetVersionTemplate("Fluense v{{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newServeCmd())
	root.AddCommand(newAssessCmd())

	return root
}
