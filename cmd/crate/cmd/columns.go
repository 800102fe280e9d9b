package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jesseward/Serato-lib/pkg/crate"
)

// addColumnCmd represents the add-column command
var addColumnCmd = &cobra.Command{
	Use:   "add-column <crate> <name>...",
	Short: "Add columns to a crate",
	Long: `Append one or more columns to a crate with default visibility and width.

Example:
  crate add-column Subcrates/House.crate bpm key`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCrate(cmd, args, "added column", (*crate.Document).AddColumn)
	},
}

// deleteColumnCmd represents the delete-column command
var deleteColumnCmd = &cobra.Command{
	Use:   "delete-column <crate> <name>...",
	Short: "Remove columns from a crate",
	Long: `Remove one or more columns from a crate by name.

Example:
  crate delete-column Subcrates/House.crate comment`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCrate(cmd, args, "deleted column", (*crate.Document).DeleteColumn)
	},
}

func init() {
	rootCmd.AddCommand(addColumnCmd)
	rootCmd.AddCommand(deleteColumnCmd)
	addOutputFlag(addColumnCmd)
	addOutputFlag(deleteColumnCmd)
}
