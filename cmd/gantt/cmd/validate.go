package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	gerrors "github.com/wexinc/gantt/internal/errors"
	"github.com/wexinc/gantt/internal/mermaid"
	"github.com/wexinc/gantt/internal/project"
	"github.com/wexinc/gantt/internal/tui/styles"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Report dependency cycles and inverted dates",
		Long: `Check a document (JSON, YAML or gantt syntax) for dependency
cycles and tasks that end before they start.

Examples:
  gantt validate plan.mmd
  gantt validate plan.json --order    # also print tasks in dependency order`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
	cmd.Flags().Bool("order", false, "print tasks in dependency order")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)

	text, source, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	doc, err := loadDocument(cmd, s, text, source)
	if err != nil {
		return err
	}

	problems := mermaid.Validate(doc)
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(cmd.OutOrStdout(), styles.ErrorTextStyle.Render("✗ ") + p)
		}
		return gerrors.ValidationFailed(problems).WithDetails("source", source)
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessTextStyle.Render("✓ ") + fmt.Sprintf("%d tasks, no problems found", len(doc.Tasks)))

	if order, _ := cmd.Flags().GetBool("order"); order {
		tasks, err := project.DependencyOrder(doc)
		if err != nil {
			return gerrors.Wrap(err, gerrors.ErrValidation, "cannot order tasks")
		}
		for i, t := range tasks {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s %s\n", i+1, styles.StatusIcon(t.Status), t.Title)
		}
	}
	return nil
}
