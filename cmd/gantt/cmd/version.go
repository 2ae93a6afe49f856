package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wexinc/gantt/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show the version, commit hash, build date and Go/platform
information of this binary.`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
	cmd.Flags().Bool("json", false, "print as JSON")
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Current()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), info.FullString())
	return nil
}
