package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jesseward/Serato-lib/pkg/crate"
)

// crateSummary is the JSON form of a crate printed by show
type crateSummary struct {
	Path     string    `json:"path"`
	Version  string    `json:"version"`
	Sort     *sortInfo `json:"sort,omitempty"`
	Columns  []string  `json:"columns"`
	Tracks   []string  `json:"tracks"`
	Encoding string    `json:"encoding"`
}

type sortInfo struct {
	Column   string `json:"column"`
	Reversed bool   `json:"reversed"`
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <crate>",
	Short: "Show the columns and tracks of a crate",
	Long: `Show the version, sort column, columns and tracks of a crate file.

Example:
  crate show Subcrates/House.crate
  crate show --format json Subcrates/House.crate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		doc, err := openCrate(args[0])
		if err != nil {
			return err
		}

		summary := summarize(doc)
		switch format {
		case "json":
			return outputSummaryJSON(cmd.OutOrStdout(), summary)
		case "table", "":
			return outputSummaryTable(cmd.OutOrStdout(), summary)
		default:
			return fmt.Errorf("unknown format %q", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringP("format", "o", "table", "Output format (table or json)")
}

func summarize(doc *crate.Document) crateSummary {
	s := crateSummary{
		Path:     doc.Path(),
		Version:  doc.VersionString(),
		Columns:  doc.ColumnNames(),
		Tracks:   doc.TrackPaths(),
		Encoding: doc.Encoding().Name(),
	}
	if name, ok := doc.SortColumn(); ok {
		s.Sort = &sortInfo{Column: name, Reversed: doc.Reversed()}
	}
	return s
}

func outputSummaryJSON(w io.Writer, s crateSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func outputSummaryTable(w io.Writer, s crateSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Path:\t%s\n", s.Path)
	fmt.Fprintf(tw, "Version:\t%s\n", s.Version)
	if s.Sort != nil {
		direction := "ascending"
		if s.Sort.Reversed {
			direction = "descending"
		}
		fmt.Fprintf(tw, "Sort:\t%s (%s)\n", s.Sort.Column, direction)
	} else {
		fmt.Fprintf(tw, "Sort:\t-\n")
	}
	fmt.Fprintf(tw, "Columns:\t%d\n", len(s.Columns))
	for _, c := range s.Columns {
		fmt.Fprintf(tw, "\t%s\n", c)
	}
	fmt.Fprintf(tw, "Tracks:\t%d\n", len(s.Tracks))
	for _, t := range s.Tracks {
		fmt.Fprintf(tw, "\t%s\n", t)
	}

	return tw.Flush()
}
