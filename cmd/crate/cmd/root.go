/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jesseward/Serato-lib/pkg/config"
	"github.com/jesseward/Serato-lib/pkg/crate"
	"github.com/jesseward/Serato-lib/pkg/di"
	"github.com/jesseward/Serato-lib/pkg/logging"
)

var container *di.Container

// SetContainer sets the dependency injection container
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crate",
	Short: "Inspect and edit Serato crate files",
	Long: `crate reads and writes Serato .crate files.

It lists the columns and tracks of a crate, adds or removes them, and
writes the file back. Unchanged content is preserved byte for byte and
the previous file is backed up before every write.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return err
			}
			container = di.NewContainer(cfg, logger)
		}
		return applyFlagOverrides(cmd, container.Config())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree and then releases the container, whether or
// not the command succeeded.
func run() error {
	err := rootCmd.Execute()
	if container == nil {
		return err
	}
	_ = container.Logger().Sync()
	if cerr := container.Close(); cerr != nil {
		rootCmd.PrintErrln("Error:", cerr)
		if err == nil {
			err = cerr
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("encoding", "", "Name encoding: legacy, utf16 or raw")
	rootCmd.PersistentFlags().Bool("no-backup", false, "Do not write a .bak copy before saving")
}

// loadConfig reads the config named by --config, the default config file if
// it exists, or falls back to built-in defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.GetDefaultConfigPath()
		if !config.ConfigExists(path) {
			cfg := config.DefaultConfig()
			return cfg, applyLogLevel(cmd, cfg)
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg, applyLogLevel(cmd, cfg)
}

func applyLogLevel(cmd *cobra.Command, cfg *config.Config) error {
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if _, err := logging.ParseLevel(level); err != nil {
			return err
		}
		cfg.Logging.Level = level
	}
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	if enc, _ := cmd.Flags().GetString("encoding"); enc != "" {
		if _, err := crate.EncodingByName(enc); err != nil {
			return err
		}
		cfg.Encoding = enc
	}
	if noBackup, _ := cmd.Flags().GetBool("no-backup"); noBackup {
		cfg.Backup.Enabled = false
	}
	return nil
}

// openCrate opens path with the options configured in the container
func openCrate(path string) (*crate.Document, error) {
	opts, err := container.CrateOptions()
	if err != nil {
		return nil, err
	}
	doc, err := crate.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open crate: %w", err)
	}
	return doc, nil
}
