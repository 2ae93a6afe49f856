package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/wexinc/gantt/internal/logging"
	"github.com/wexinc/gantt/internal/project"
	"github.com/wexinc/gantt/internal/store"
	"github.com/wexinc/gantt/internal/tui/styles"
)

const timeLayout = "2006-01-02 15:04"

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage saved projects and their history",
		Long: `Save documents as named projects and manage their version history.

Every save that changes a project records an automatic version; named
snapshots are kept separately. The oldest versions are pruned past the
store.max_auto_versions and store.max_manual_versions limits.`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved projects",
		Args:  cobra.NoArgs,
		RunE:  runProjectList,
	}

	save := &cobra.Command{
		Use:   "save <name> [file]",
		Short: "Save a document (JSON, YAML or gantt syntax) as a project",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runProjectSave,
	}

	show := &cobra.Command{
		Use:   "show <project>",
		Short: "Print a project's current document",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectShow,
	}
	show.Flags().StringP("format", "f", formatMermaid, "output format: mermaid, csv, json or yaml")

	snapshot := &cobra.Command{
		Use:   "snapshot <project>",
		Short: "Record a named version of a project",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectSnapshot,
	}
	snapshot.Flags().StringP("label", "l", "", "snapshot label (default: the current time)")

	versions := &cobra.Command{
		Use:   "versions <project>",
		Short: "List a project's versions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectVersions,
	}

	restore := &cobra.Command{
		Use:   "restore <project> <version>",
		Short: "Make a version the project's current document",
		Long: `Make a version the project's current document. The document being
replaced is kept as a snapshot labelled "Before restore".`,
		Args: cobra.ExactArgs(2),
		RunE: runProjectRestore,
	}

	rename := &cobra.Command{
		Use:   "rename <project> <new-name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE:  runProjectRename,
	}

	del := &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a project and its history",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectDelete,
	}

	cmd.AddCommand(list, save, show, snapshot, versions, restore, rename, del)
	return cmd
}

// openStore opens the configured project database.
func openStore(cmd *cobra.Command, s *settings) (*store.Store, error) {
	return store.Open(cmd.Context(), s.cfg.Store.Path, store.Options{
		MaxAutoVersions:   s.cfg.Store.MaxAutoVersions,
		MaxManualVersions: s.cfg.Store.MaxManualVersions,
	})
}

// saveProject stores doc under name and reports what happened on stderr.
func saveProject(cmd *cobra.Command, s *settings, name string, doc *project.Document) error {
	st, err := openStore(cmd, s)
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := st.Save(cmd.Context(), name, doc)
	if err != nil {
		return err
	}
	switch {
	case res.Created:
		cmd.PrintErrln(styles.SuccessTextStyle.Render("✓ ") + fmt.Sprintf("created project %s (%s)", name, res.Project.ID))
	case res.Changed:
		cmd.PrintErrln(styles.SuccessTextStyle.Render("✓ ") + "saved project " + name)
	default:
		cmd.PrintErrln(styles.MutedTextStyle.Render("project " + name + " unchanged"))
	}
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	st, err := openStore(cmd, s)
	if err != nil {
		return err
	}
	defer st.Close()

	projects, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		cmd.PrintErrln("no saved projects")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID\tUPDATED\tCREATED")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.ID, localTime(p.UpdatedAt), localTime(p.CreatedAt))
	}
	return w.Flush()
}

func runProjectSave(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)

	text, source, err := readInput(cmd, args[1:])
	if err != nil {
		return err
	}
	doc, err := loadDocument(cmd, s, text, source)
	if err != nil {
		return err
	}
	return saveProject(cmd, s, args[0], doc)
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	st, err := openStore(cmd, s)
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	out, err := renderDocument(s, p.Document, format, exportFormats)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runProjectSnapshot(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	st, err := openStore(cmd, s)
	if err != nil {
		return err
	}
	defer st.Close()

	label, _ := cmd.Flags().GetString("label")
	v, err := st.Snapshot(cmd.Context(), args[0], label)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.ID)
	cmd.PrintErrln(styles.SuccessTextStyle.Render("✓ ") + "snapshot " + v.Label)
	return nil
}

func runProjectVersions(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	st, err := openStore(cmd, s)
	if err != nil {
		return err
	}
	defer st.Close()

	versions, err := st.Versions(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tCREATED\tTASKS\tLABEL")
	for _, v := range versions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", v.ID, v.Kind, localTime(v.CreatedAt), len(v.Document.Tasks), v.Label)
	}
	return w.Flush()
}

func runProjectRestore(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	st, err := openStore(cmd, s)
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.Restore(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}
	cmd.PrintErrln(styles.SuccessTextStyle.Render("✓ ") + fmt.Sprintf("restored %s to version %s", p.Name, args[1]))
	return nil
}

func runProjectRename(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	st, err := openStore(cmd, s)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Rename(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}
	logging.Info("project renamed", "from", args[0], "to", args[1])
	cmd.PrintErrln(styles.SuccessTextStyle.Render("✓ ") + "renamed " + args[0] + " to " + args[1])
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	s := settingsFrom(cmd)
	st, err := openStore(cmd, s)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.PrintErrln(styles.SuccessTextStyle.Render("✓ ") + "deleted " + args[0])
	return nil
}

func localTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}
