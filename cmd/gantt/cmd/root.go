// Package cmd provides the CLI commands for gantt.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wexinc/gantt/internal/config"
	gerrors "github.com/wexinc/gantt/internal/errors"
	"github.com/wexinc/gantt/internal/logging"
	"github.com/wexinc/gantt/internal/mermaid"
	"github.com/wexinc/gantt/internal/project"
)

// settings is the configuration shared by every command of one invocation.
type settings struct {
	cfg     *config.Config
	verbose bool
}

type settingsKey struct{}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gantt",
		Short: "Parse, validate and convert mermaid gantt charts",
		Long: `gantt reads and writes the mermaid gantt dialect.

It converts gantt syntax to structured documents and back, imports and
exports CSV, classifies free text as schedule-like, and keeps a local
history of saved projects.`,
		PersistentPreRunE: loadSettings,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().String("config", "", "path to config file (default .gantt/config.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(newParseCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newDetectCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newCSVCmd())
	root.AddCommand(newPasteCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newProjectCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	root := NewRootCmd()
	err := root.ExecuteContext(context.Background())
	_ = logging.CloseGlobal()
	if err != nil {
		fmt.Fprint(os.Stderr, gerrors.FormatError(err))
		os.Exit(1)
	}
}

// loadSettings reads the configuration, starts logging and stores both in the
// command's context.
func loadSettings(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(path)
	if err != nil {
		return configError(path, err)
	}

	_ = logging.CloseGlobal()
	if err := logging.InitGlobal(cfg.LoggerConfig(verbose)); err != nil {
		return fmt.Errorf("failed to start logging: %w", err)
	}
	logging.Debug("command started", "command", cmd.CommandPath(), "config", path)

	cmd.SetContext(context.WithValue(cmd.Context(), settingsKey{}, &settings{cfg: cfg, verbose: verbose}))
	return nil
}

func configError(path string, err error) error {
	if path == "" {
		path = config.DefaultConfigPath
	}
	var loadErr *config.LoadError
	if !errors.As(err, &loadErr) {
		return err
	}
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return gerrors.ConfigNotFound(path)
	case loadErr.Message == "configuration validation failed":
		var fields []string
		var invalid config.ValidationErrors
		if errors.As(err, &invalid) {
			for _, v := range invalid {
				fields = append(fields, v.Field)
			}
		}
		return gerrors.ConfigValidationError(path, fields, loadErr.Err)
	default:
		return gerrors.ConfigParseError(path, loadErr.Err)
	}
}

// settingsFrom returns the settings stored by loadSettings, falling back to
// defaults for commands run without the root's pre-run.
func settingsFrom(cmd *cobra.Command) *settings {
	if s, ok := cmd.Context().Value(settingsKey{}).(*settings); ok {
		return s
	}
	return &settings{cfg: config.NewConfig()}
}

// newParser returns a parser that starts documents with the configured
// directives.
func (s *settings) newParser() *mermaid.Parser {
	p := mermaid.NewParser()
	defaults := project.DefaultConfig()
	defaults.DateFormat = s.cfg.Syntax.DateFormat
	defaults.AxisFormat = s.cfg.Syntax.AxisFormat
	p.SetDefaults(defaults)
	return p
}

// readInput reads the file named by args[0], or stdin when there is no
// argument or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "stdin", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", args[0], fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), args[0], nil
}

// loadDocument reads a document in any accepted input form: JSON, gantt
// syntax, or YAML. Parser warnings are printed to stderr.
func loadDocument(cmd *cobra.Command, s *settings, text, source string) (*project.Document, error) {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return nil, gerrors.NoData("no input in " + source)
	case strings.HasPrefix(trimmed, "{"):
		doc, err := project.Decode([]byte(text), project.FormatJSON)
		if err != nil {
			return nil, gerrors.DocumentDecodeError(source, err)
		}
		return doc, nil
	case isGanttSyntax(trimmed):
		res := s.newParser().Parse(text)
		printWarnings(cmd, res.Warnings)
		return res.Document, nil
	default:
		doc, err := project.Decode([]byte(text), project.FormatYAML)
		if err != nil {
			return nil, gerrors.DocumentDecodeError(source, err)
		}
		return doc, nil
	}
}

// isGanttSyntax reports whether the first statement of text is "gantt".
func isGanttSyntax(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		return line == "gantt"
	}
	return false
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		cmd.PrintErrln("warning: " + w)
	}
}

// Output formats accepted by --format flags.
const (
	formatMermaid = "mermaid"
	formatCSV     = "csv"
)

// renderDocument encodes doc in one of json, yaml, mermaid or csv.
func renderDocument(s *settings, doc *project.Document, format string, valid []string) (string, error) {
	if !slices.Contains(valid, format) {
		return "", gerrors.UnsupportedFormat(format, valid)
	}
	switch format {
	case formatMermaid:
		return mermaid.Serialize(doc) + "\n", nil
	case formatCSV:
		return exportCSV(s, doc), nil
	}

	f, err := project.ParseFormat(format)
	if err != nil {
		return "", gerrors.UnsupportedFormat(format, valid)
	}
	data, err := project.Encode(doc, f)
	if err != nil {
		return "", err
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	return string(data), nil
}

// outputFormat returns the --format flag, or the configured default.
func outputFormat(cmd *cobra.Command, s *settings) string {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = string(s.cfg.Output.Format)
	}
	return strings.ToLower(format)
}
