package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wexinc/gantt/internal/detect"
	gerrors "github.com/wexinc/gantt/internal/errors"
	"github.com/wexinc/gantt/internal/tui/styles"
)

// detectReport is the --json output of the detect command.
type detectReport struct {
	Likely     bool            `json:"likely"`
	Confidence float64         `json:"confidence"`
	Threshold  float64         `json:"threshold"`
	Signals    map[string]bool `json:"signals"`
	Preview    detect.Preview  `json:"preview"`
}

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Check whether text looks like a schedule",
		Long: `Score text for schedule-like signals (dates, durations, task
lists, project vocabulary and gantt syntax) and preview what an import
would produce.

Examples:
  gantt detect notes.txt
  pbpaste | gantt detect --strict     # exit status 1 when not a schedule
  gantt detect notes.txt --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDetect,
	}
	cmd.Flags().Bool("strict", false, "fail when the text is not schedule-like")
	cmd.Flags().Bool("json", false, "print the report as JSON")
	cmd.Flags().Float64("threshold", -1, "confidence needed to count as a schedule (default from config)")
	return cmd
}

func runDetect(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	if threshold < 0 {
		threshold = s.cfg.Detect.Threshold
	}

	text, _, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	signals := detect.DetectSignals(text)
	report := detectReport{
		Likely:     detect.IsLikelySchedule(text, threshold),
		Confidence: signals.Confidence,
		Threshold:  threshold,
		Signals:    make(map[string]bool, len(detect.AllSignals)),
		Preview:    detect.ExtractPreview(text),
	}
	for _, sig := range detect.AllSignals {
		report.Signals[string(sig)] = signals.Matches[sig].Found
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		fmt.Fprint(cmd.OutOrStdout(), formatDetectReport(report, signals))
	}

	if strict, _ := cmd.Flags().GetBool("strict"); strict && !report.Likely {
		return gerrors.NotSchedule(report.Confidence, threshold)
	}
	return nil
}

func formatDetectReport(r detectReport, signals detect.Signals) string {
	var b strings.Builder
	label := styles.LabelStyle.Render

	verdict := styles.ErrorTextStyle.Render("not a schedule")
	if r.Likely {
		verdict = styles.SuccessTextStyle.Render("looks like a schedule")
	}
	fmt.Fprintf(&b, "%s %s\n", label("Result:"), verdict)
	fmt.Fprintf(&b, "%s %s\n", label("Confidence:"),
		styles.ConfidenceStyle(r.Preview.Confidence).Render(fmt.Sprintf("%.2f (%s)", r.Confidence, r.Preview.Confidence)))

	b.WriteString(styles.SectionStyle.Render("Signals") + "\n")
	for _, sig := range detect.AllSignals {
		m := signals.Matches[sig]
		mark := styles.MutedTextStyle.Render("-")
		detail := ""
		if m.Found {
			mark = styles.SuccessTextStyle.Render("✓")
			detail = styles.MutedTextStyle.Render(fmt.Sprintf(" %q", m.Span))
		}
		fmt.Fprintf(&b, "  %s %s%s\n", mark, sig, detail)
	}

	p := r.Preview
	b.WriteString(styles.SectionStyle.Render("Preview") + "\n")
	fmt.Fprintf(&b, "  %s %d\n", label("Tasks:"), p.TaskCount)
	if len(p.Sections) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", label("Sections:"), strings.Join(p.Sections, ", "))
	}
	if p.DateRange != nil {
		fmt.Fprintf(&b, "  %s %s to %s\n", label("Dates:"), p.DateRange.Start, p.DateRange.End)
	}
	if p.IsMermaid {
		fmt.Fprintf(&b, "  %s gantt syntax\n", label("Format:"))
	}
	for _, w := range p.Warnings {
		b.WriteString("  " + styles.WarningTextStyle.Render("⚠ "+w) + "\n")
	}
	return b.String()
}
