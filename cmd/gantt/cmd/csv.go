package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wexinc/gantt/internal/csvio"
)

var csvImportFormats = []string{"json", "yaml", formatMermaid}

func newCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv [file]",
		Short: "Import a CSV file as a document",
		Long: `Import CSV rows as tasks. Columns are matched by header name;
Title is required, every other column is optional. Rows with the wrong
number of fields or unreadable values are reported on stderr.

Examples:
  gantt csv plan.csv                    # JSON document
  gantt csv plan.csv --format mermaid   # gantt syntax`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCSV,
	}
	cmd.Flags().StringP("format", "f", "", "output format: json, yaml or mermaid (default from config)")
	cmd.Flags().String("date-format", "", "date template of the CSV dates (default from config)")
	return cmd
}

func runCSV(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	dateFormat, _ := cmd.Flags().GetString("date-format")
	if dateFormat == "" {
		dateFormat = s.cfg.CSV.DateFormat
	}

	text, _, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	table, err := csvio.Parse(text)
	if err != nil {
		return err
	}
	printWarnings(cmd, table.Errors)

	res := csvio.Import(table, dateFormat, nil)
	printWarnings(cmd, res.Warnings)

	out, err := renderDocument(s, res.Document, outputFormat(cmd, s), csvImportFormats)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
