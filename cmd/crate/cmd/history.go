package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/jesseward/Serato-lib/pkg/crate"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage crate snapshots",
	Long: `Snapshots are full copies of a crate taken before every save when
snapshots are enabled in the config file. They are kept in a local
database and can be listed, restored and pruned.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list <crate>",
	Short: "List the snapshots of a crate, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := container.SnapshotStore()
		if err != nil {
			return err
		}
		snapshots, err := store.List(args[0])
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}

		if len(snapshots) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no snapshots for %s\n", args[0])
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\tTAKEN\tBYTES\n")
		for _, s := range snapshots {
			fmt.Fprintf(w, "%s\t%s\t%d\n", s.ID, s.Time.Format(time.RFC3339), s.Size)
		}
		return w.Flush()
	},
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore <crate> <snapshot-id>",
	Short: "Replace a crate with one of its snapshots",
	Long: `Replace a crate with one of its snapshots, byte for byte. The current
file is backed up first, like any other save.

Example:
  crate history restore Subcrates/House.crate 2abcDEF...`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		id, err := ksuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid snapshot id: %w", err)
		}

		store, err := container.SnapshotStore()
		if err != nil {
			return err
		}
		data, err := store.Read(path, id)
		if err != nil {
			return err
		}

		opts, err := container.CrateOptions()
		if err != nil {
			return err
		}
		if err := crate.Restore(path, data, opts...); err != nil {
			return fmt.Errorf("failed to restore snapshot %s: %w", id, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "restored %s from snapshot %s\n", path, id)
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune <crate>",
	Short: "Delete old snapshots of a crate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if !cmd.Flags().Changed("keep") {
			keep = container.Config().Snapshots.Keep
			if keep <= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "snapshots.keep is 0, nothing to prune; pass --keep to set a limit")
				return nil
			}
		}

		store, err := container.SnapshotStore()
		if err != nil {
			return err
		}
		removed, err := store.Prune(args[0], keep)
		if err != nil {
			return fmt.Errorf("failed to prune snapshots: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed %d snapshots\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyRestoreCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyPruneCmd.Flags().Int("keep", 0, "Number of snapshots to keep (default from config)")
}
