package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wexinc/gantt/internal/tui/styles"
	"github.com/wexinc/gantt/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch an inbox directory for schedules",
		Long: `Watch a directory and report every file whose text looks like a
schedule, with a preview. Files already in the directory are checked
first. Content identical to the previous file is skipped.

With --save, each detected file is parsed and saved as a project named
after the file.

Examples:
  gantt watch ~/inbox
  gantt watch ./drop --save`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
	cmd.Flags().Bool("save", false, "save detected schedules as projects")
	cmd.Flags().Duration("debounce", 0, "quiet period before a file is read (default from config)")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	save, _ := cmd.Flags().GetBool("save")
	debounce, _ := cmd.Flags().GetDuration("debounce")
	if debounce <= 0 {
		debounce = s.cfg.Watch.Debounce
	}

	handler := func(ctx context.Context, d watch.Detection) error {
		fmt.Fprintln(cmd.OutOrStdout(), formatDetection(d))
		if !save {
			return nil
		}
		res := s.newParser().Parse(d.Text)
		printWarnings(cmd, res.Warnings)
		return saveProject(cmd, s, projectNameFor(d.Path), res.Document)
	}

	w, err := watch.New(watch.Options{
		Dir:        args[0],
		Extensions: s.cfg.Watch.Extensions,
		Debounce:   debounce,
		Threshold:  s.cfg.Detect.Threshold,
	}, handler)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.PrintErrln(styles.MutedTextStyle.Render("watching " + args[0] + " (Ctrl+C to stop)"))
	return w.Run(ctx)
}

func formatDetection(d watch.Detection) string {
	p := d.Preview
	parts := []string{
		styles.ValueStyle.Render(filepath.Base(d.Path)),
		styles.ConfidenceStyle(p.Confidence).Render(string(p.Confidence)),
		fmt.Sprintf("%d tasks", p.TaskCount),
	}
	if p.DateRange != nil {
		parts = append(parts, p.DateRange.Start+" to "+p.DateRange.End)
	}
	if len(p.Sections) > 0 {
		parts = append(parts, "sections: "+strings.Join(p.Sections, ", "))
	}
	return styles.MutedTextStyle.Render(d.DetectedAt.Format(time.TimeOnly)) + " " + strings.Join(parts, "  ")
}

// projectNameFor derives a project name from a file path.
func projectNameFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
