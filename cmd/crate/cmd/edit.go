package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jesseward/Serato-lib/pkg/crate"
)

// editCrate opens the crate named by the first argument, applies edit to
// every remaining argument and saves the result. Nothing is written if any
// edit fails.
func editCrate(cmd *cobra.Command, args []string, verb string, edit func(*crate.Document, string) error) error {
	path := args[0]
	doc, err := openCrate(path)
	if err != nil {
		return err
	}

	for _, arg := range args[1:] {
		if err := edit(doc, arg); err != nil {
			return err
		}
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = path
	}
	if err := doc.SaveAs(output); err != nil {
		return fmt.Errorf("failed to save crate: %w", err)
	}

	for _, arg := range args[1:] {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", verb, arg)
	}
	return nil
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().String("output", "", "Write the edited crate to this path instead of overwriting the input")
}
