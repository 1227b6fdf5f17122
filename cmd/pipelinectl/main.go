// pipelinectl is a thin HTTP client for the pipelineworker API, structured as
// one cobra subcommand per route the way vybe's internal/commands package
// organizes its CLI — each NewXCmd constructor owns its own flags and talks
// to the server over plain net/http rather than touching the store directly.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "pipelinectl",
		Short: "Control a running pipelineworker instance",
	}
	root.PersistentFlags().String("addr", envOr("PIPELINECTL_ADDR", "http://localhost:8080"), "pipelineworker base URL")

	root.AddCommand(
		newStartCmd(),
		newPauseCmd(),
		newResumeCmd(),
		newCancelCmd(),
		newProgressCmd(),
		newKnowledgeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
