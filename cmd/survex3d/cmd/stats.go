package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/survex3d/pkg/survey"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Summarise a 3D file",
	Long: `Print survey totals for a 3D file: leg lengths, station and entrance
counts, bounding box, date span and record counts per kind.

Example:
  survex3d stats cave.3d`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		header, records, err := readSurveyFile(args[0])
		if err != nil {
			return err
		}
		totals := survey.Build(header, records).Totals()

		switch format {
		case "json":
			return writeJSON(cmd.OutOrStdout(), totals)
		case "text":
			return outputTotalsTable(cmd.OutOrStdout(), header, totals)
		}
		return fmt.Errorf("unknown format %q (want text or json)", format)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
}
