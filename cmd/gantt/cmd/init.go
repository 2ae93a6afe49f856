package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wexinc/gantt/internal/config"
	gerrors "github.com/wexinc/gantt/internal/errors"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default configuration file",
		Long: `Create .gantt/config.yaml with the default settings.

Use --force to overwrite an existing configuration.

Examples:
  gantt init            # in the current directory
  gantt init --force    # overwrite .gantt/config.yaml`,
		Args: cobra.MaximumNArgs(1),
		// init must work even when the existing config is broken.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE:              runInit,
	}
	cmd.Flags().BoolP("force", "f", false, "overwrite existing configuration")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	path := filepath.Join(dir, config.DefaultConfigPath)

	if err := config.Write(config.NewConfig(), path, force); err != nil {
		return gerrors.WithSuggestion(gerrors.ErrConfig, err.Error(),
			"Run with --force to overwrite the existing configuration.")
	}

	cmd.PrintErrln("Created " + path)
	cmd.PrintErrln("Edit it to change date formats, CSV options, the store path and watch settings.")
	return nil
}
