package cmd

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jesseward/Serato-lib/pkg/codec"
	"github.com/jesseward/Serato-lib/pkg/crate"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <crate>",
	Short: "Print every tag of a crate with its file offset",
	Long: `Print every recognized tag of a crate file in file order, with the
offset of the tag and its payload. Parsing stops at the first byte
sequence that is not a known tag and the error is reported.

Example:
  crate dump Subcrates/House.crate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read crate: %w", err)
		}

		opts, err := container.CrateOptions()
		if err != nil {
			return err
		}
		enc := container.Config().Encoding
		names, err := crate.EncodingByName(enc)
		if err != nil {
			return err
		}

		tag := color.New(color.FgCyan, color.Bold).SprintFunc()
		offset := color.New(color.Faint).SprintFunc()
		out := cmd.OutOrStdout()

		_, err = crate.Inspect(data, func(f crate.Field) {
			fmt.Fprintf(out, "%s %s  %s\n", tag(f.Tag), offset(fmt.Sprintf("%08d", f.Offset)), formatField(f, names))
		}, opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

// formatField renders names and paths as text and everything else as hex
func formatField(f crate.Field, names crate.NameEncoding) string {
	switch f.Tag {
	case codec.TagColumnName, codec.TagTrackPath:
		return fmt.Sprintf("%q", names.Decode(f.Value))
	case codec.TagVersion:
		return fmt.Sprintf("%q", crate.DecodeVersion(f.Value))
	default:
		return hex.EncodeToString(f.Value)
	}
}
