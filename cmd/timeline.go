package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spigell/recruiter-copilot/internal/timeline"
)

const (
	formatTable = "table"
	formatYAML  = "yaml"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the technology release years used by the technology-age check",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		return printTimeline(cmd.OutOrStdout(), timeline.Default(), format)
	},
}

func init() {
	rootCmd.AddCommand(timelineCmd)

	timelineCmd.Flags().String("format", formatTable, "output format: table or yaml")
}

func printTimeline(w io.Writer, tl *timeline.Timeline, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", formatTable:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TECHNOLOGY\tRELEASED")
		for _, e := range tl.Entries() {
			fmt.Fprintf(tw, "%s\t%d\n", e.Name, e.Year)
		}
		return tw.Flush()
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tl.Entries()); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
