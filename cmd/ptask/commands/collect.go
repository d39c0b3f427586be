package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/ptask/internal/errors"
	"github.com/thoreinstein/ptask/internal/logging"
	"github.com/thoreinstein/ptask/internal/tasks"
)

var collectJSON bool

func init() {
	registerCommand(collectCmd,
		option{name: "ignore", value: []string{}, usage: "glob patterns of files and directories to ignore"},
		option{name: "debug_pytask", value: false, usage: "trace the configuration engine"},
		option{name: "json", value: false, usage: "output as JSON", target: &collectJSON},
	)
}

var collectCmd = &cobra.Command{
	Use:   "collect [PATHS]...",
	Short: "List the task files of the project",
	Long: `List every task file below the given paths (default: the paths from the
configuration, or the current directory).

Task files are matched by the task_files setting (default "task_*.py").
Entries matching an ignore pattern are skipped; patterns match trailing
path components, so ".git/*" skips the contents of every .git directory.`,
	Example: `  # Collect tasks of the current project
  ptask collect

  # Ignore a scratch directory
  ptask collect --ignore 'scratch/*'

See Also: ptask config`,
	RunE: runCollect,
}

// collectedTask is the JSON form of a collected task file.
type collectedTask struct {
	Path     string `json:"path"`
	Relative string `json:"relative"`
}

func runCollect(cmd *cobra.Command, _ []string) error {
	r := resolvedFrom(cmd)
	if r == nil {
		return errors.New("configuration was not resolved")
	}

	found, err := tasks.Collect(afero.NewOsFs(), r.Settings)
	if err != nil {
		return err
	}

	logging.FromContext(cmd.Context()).Info("collected tasks", "count", len(found), "root", r.Settings.Root)

	if collectJSON {
		return outputCollectJSON(cmd.OutOrStdout(), r.Settings.Root, found)
	}
	return outputCollectText(cmd.OutOrStdout(), r.Settings.Root, found)
}

func outputCollectJSON(w io.Writer, root string, found []string) error {
	out := make([]collectedTask, 0, len(found))
	for _, p := range found {
		out = append(out, collectedTask{Path: p, Relative: relativeTo(root, p)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func outputCollectText(w io.Writer, root string, found []string) error {
	header := fmt.Sprintf("Collected %d task file(s) in %s", len(found), root)
	if logging.SupportsColor(w) {
		header = color.New(color.Bold).Sprint(header)
	}
	fmt.Fprintln(w, header)

	for _, p := range found {
		fmt.Fprintf(w, "  %s\n", relativeTo(root, p))
	}
	return nil
}

// relativeTo returns p relative to root, or p when it lies outside root.
func relativeTo(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || !filepath.IsLocal(rel) {
		return p
	}
	return filepath.ToSlash(rel)
}
