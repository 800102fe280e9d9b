package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jesseward/Serato-lib/pkg/crate"
)

// addTrackCmd represents the add-track command
var addTrackCmd = &cobra.Command{
	Use:   "add-track <crate> <path>...",
	Short: "Add tracks to a crate",
	Long: `Append one or more track paths to a crate. Paths are stored exactly as
given; Serato expects them relative to the volume root.

Example:
  crate add-track Subcrates/House.crate "Music/Artist/Track.mp3"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCrate(cmd, args, "added track", (*crate.Document).AddTrack)
	},
}

// deleteTrackCmd represents the delete-track command
var deleteTrackCmd = &cobra.Command{
	Use:   "delete-track <crate> <path>...",
	Short: "Remove tracks from a crate",
	Long: `Remove one or more track paths from a crate.

Example:
  crate delete-track Subcrates/House.crate "Music/Artist/Track.mp3"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCrate(cmd, args, "deleted track", (*crate.Document).DeleteTrack)
	},
}

func init() {
	rootCmd.AddCommand(addTrackCmd)
	rootCmd.AddCommand(deleteTrackCmd)
	addOutputFlag(addTrackCmd)
	addOutputFlag(deleteTrackCmd)
}
