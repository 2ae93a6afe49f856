package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	gerrors "github.com/wexinc/gantt/internal/errors"
	"github.com/wexinc/gantt/internal/mermaid"
)

var documentFormats = []string{"json", "yaml"}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse gantt syntax into a document",
		Long: `Parse mermaid gantt syntax into a structured document.

Lines that cannot be read are skipped and reported on stderr. The
document is printed as JSON or YAML.

Examples:
  gantt parse plan.mmd                 # JSON document on stdout
  gantt parse plan.mmd --format yaml   # YAML document
  cat plan.mmd | gantt parse --validate`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}
	cmd.Flags().StringP("format", "f", "", "output format: json or yaml (default from config)")
	cmd.Flags().Bool("validate", false, "fail when the parsed document has problems")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	format := outputFormat(cmd, s)

	text, source, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	res := s.newParser().Parse(text)
	printWarnings(cmd, res.Warnings)

	if validate, _ := cmd.Flags().GetBool("validate"); validate {
		if problems := mermaid.Validate(res.Document); len(problems) > 0 {
			for _, p := range problems {
				cmd.PrintErrln("problem: " + p)
			}
			return gerrors.ValidationFailed(problems).WithDetails("source", source)
		}
	}

	out, err := renderDocument(s, res.Document, format, documentFormats)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
