package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wexinc/gantt/internal/tui"
)

func newPasteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paste [file]",
		Short: "Paste text interactively and import it",
		Long: `Open a text area that previews, as you type or paste, whether
the text looks like a schedule. Ctrl+S parses it and prints the
document; Esc cancels.

Examples:
  gantt paste                       # start empty
  gantt paste draft.txt             # start from a file
  gantt paste --save roadmap        # store the result as a project`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPaste,
	}
	cmd.Flags().StringP("format", "f", "", "output format: json, yaml or mermaid (default from config)")
	cmd.Flags().String("save", "", "save the result as the named project")
	return cmd
}

func runPaste(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)

	initial := ""
	if len(args) == 1 {
		text, _, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		initial = text
	}

	res, err := tui.RunPaste(cmd.Context(), s.newParser(), s.cfg.Detect.Threshold, initial)
	if err != nil {
		return err
	}
	if res == nil {
		cmd.PrintErrln("canceled")
		return nil
	}
	printWarnings(cmd, res.Warnings)

	if name, _ := cmd.Flags().GetString("save"); name != "" {
		if err := saveProject(cmd, s, name, res.Document); err != nil {
			return err
		}
	}

	out, err := renderDocument(s, res.Document, outputFormat(cmd, s), csvImportFormats)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
