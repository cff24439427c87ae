package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ssargent/survex3d/pkg/img3d"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Print the records of a 3D file",
	Long: `Decode a Survex 3D image file and print its records in file order.

Examples:
  survex3d decode cave.3d
  survex3d decode cave.3d --kind LINE,LABEL
  survex3d decode cave.3d --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		kindList, _ := cmd.Flags().GetString("kind")

		kinds, err := parseKindList(kindList)
		if err != nil {
			return err
		}

		header, records, err := readSurveyFile(args[0])
		if err != nil {
			return err
		}
		if len(kinds) > 0 {
			records = records.Filter(kinds...)
		}

		switch format {
		case "json":
			return writeJSON(cmd.OutOrStdout(), struct {
				Header  img3d.Header  `json:"header"`
				Records img3d.Records `json:"records"`
			}{header, records})
		case "text":
			outputRecordsText(cmd.OutOrStdout(), header, records)
			return nil
		}
		return fmt.Errorf("unknown format %q (want text or json)", format)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
	decodeCmd.Flags().StringP("kind", "k", "", "Only print these record kinds (comma separated)")
}

func parseKindList(list string) ([]img3d.Kind, error) {
	if list == "" {
		return nil, nil
	}
	var kinds []img3d.Kind
	for _, name := range strings.Split(list, ",") {
		k, ok := img3d.ParseKind(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown record kind %q", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
