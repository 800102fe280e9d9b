package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jesseward/Serato-lib/pkg/crate"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <crate> [track]...",
	Short: "Create an empty crate",
	Long: `Create a new crate file sorted by song, optionally with columns and tracks.

Example:
  crate new Subcrates/Techno.crate
  crate new --column song --column artist Subcrates/Techno.crate Music/a.mp3`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		force, _ := cmd.Flags().GetBool("force")
		columns, _ := cmd.Flags().GetStringArray("column")

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}

		opts, err := container.CrateOptions()
		if err != nil {
			return err
		}
		doc := crate.NewDocument(opts...)
		for _, c := range columns {
			if err := doc.AddColumn(c); err != nil {
				return err
			}
		}
		for _, t := range args[1:] {
			if err := doc.AddTrack(t); err != nil {
				return err
			}
		}

		if err := doc.SaveAs(path); err != nil {
			return fmt.Errorf("failed to save crate: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s with %d columns and %d tracks\n", path, len(doc.Columns), len(doc.Tracks))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().Bool("force", false, "Overwrite an existing file")
	newCmd.Flags().StringArray("column", nil, "Column to add (repeatable)")
}
