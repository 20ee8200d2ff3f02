// Package cmd — algorithms command.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/sitehash/core/digest"
)

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List supported hash algorithms",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stdout, "Supported hash algorithms:")
		for _, name := range digest.Algorithms() {
			fmt.Fprintf(os.Stdout, "- %s\n", name)
		}
	},
}

func init() {
	rootCmd.AddCommand(algorithmsCmd)
}
