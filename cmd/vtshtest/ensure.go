package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Build the shell under test if its binary is missing",
	Long: `Ensure checks that the binary under test exists and runs the configure
and build commands against the enclosing project when it does not. It runs
no shell commands itself.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHarness(cmd)
		if err != nil {
			return decorate(err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("ok: ")+h.BinaryPath())
		return nil
	},
}
