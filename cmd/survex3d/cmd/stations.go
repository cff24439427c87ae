package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/survex3d/pkg/survey"
)

// stationsCmd represents the stations command
var stationsCmd = &cobra.Command{
	Use:   "stations <file>",
	Short: "List the labelled stations of a 3D file",
	Long: `List labelled stations in label order, optionally only those whose
label starts with a prefix.

Examples:
  survex3d stations cave.3d
  survex3d stations cave.3d --prefix mig.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, _ := cmd.Flags().GetString("prefix")
		format, _ := cmd.Flags().GetString("format")

		header, records, err := readSurveyFile(args[0])
		if err != nil {
			return err
		}
		stations := survey.Build(header, records).StationsWithPrefix(prefix)

		switch format {
		case "json":
			return writeJSON(cmd.OutOrStdout(), stations)
		case "text":
			return outputStationsTable(cmd.OutOrStdout(), stations)
		}
		return fmt.Errorf("unknown format %q (want text or json)", format)
	},
}

func init() {
	rootCmd.AddCommand(stationsCmd)
	stationsCmd.Flags().StringP("prefix", "p", "", "Only list stations under this label prefix")
	stationsCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
}
