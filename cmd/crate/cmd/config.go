package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jesseward/Serato-lib/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the crate tool configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a default config file.

Examples:
  crate config init
  crate config init --path ./crate.yaml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		force, _ := cmd.Flags().GetBool("force")
		if path == "" {
			path = config.GetDefaultConfigPath()
		}

		if _, err := config.BootstrapConfig(path, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote config to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().String("path", "", "Where to write the config file")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
