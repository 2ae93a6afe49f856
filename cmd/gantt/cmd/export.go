package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wexinc/gantt/internal/csvio"
	"github.com/wexinc/gantt/internal/project"
)

var exportFormats = []string{formatMermaid, formatCSV, "json", "yaml"}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Convert a document to gantt syntax, CSV, JSON or YAML",
		Long: `Convert a document to another format.

The input may be a JSON or YAML document or gantt syntax. CSV output
uses the csv section of the configuration.

Examples:
  gantt export plan.json                  # gantt syntax
  gantt export plan.json --format csv     # CSV with BOM and headers
  gantt export plan.mmd --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}
	cmd.Flags().StringP("format", "f", formatMermaid, "output format: mermaid, csv, json or yaml")
	cmd.Flags().Bool("no-bom", false, "omit the byte order mark from CSV output")
	cmd.Flags().Bool("no-headers", false, "omit the header row from CSV output")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)

	if noBOM, _ := cmd.Flags().GetBool("no-bom"); noBOM {
		s.cfg.CSV.IncludeBOM = false
	}
	if noHeaders, _ := cmd.Flags().GetBool("no-headers"); noHeaders {
		s.cfg.CSV.IncludeHeaders = false
	}

	text, source, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	doc, err := loadDocument(cmd, s, text, source)
	if err != nil {
		return err
	}

	out, err := renderDocument(s, doc, outputFormat(cmd, s), exportFormats)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// exportCSV renders doc with the configured CSV options.
func exportCSV(s *settings, doc *project.Document) string {
	return csvio.Export(doc, csvio.ExportOptions{
		DateFormat:     s.cfg.CSV.DateFormat,
		IncludeHeaders: s.cfg.CSV.IncludeHeaders,
		IncludeBOM:     s.cfg.CSV.IncludeBOM,
	}) + "\n"
}
