// Package cmd implements the CLI commands for sitehash using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sitehash",
	Short: "sitehash — canonical content hashing for web resources",
	Long: `sitehash fetches a URL, normalizes its content into a canonical byte form
(rendered visible text for HTML, RFC 8785 for JSON, UTF-8 for text), and
hashes that form so digests change only when the content meaningfully does.

Usage:
  sitehash hash <url> [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
