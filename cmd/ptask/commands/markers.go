package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ptask/internal/config"
	"github.com/thoreinstein/ptask/internal/errors"
)

var markersJSON bool

func init() {
	registerCommand(markersCmd,
		option{name: "json", value: false, usage: "output as JSON", target: &markersJSON},
	)
}

var markersCmd = &cobra.Command{
	Use:   "markers [PATHS]...",
	Short: "Show the markers of the project",
	Long: `Show all markers available to tasks, including the ones declared in the
markers setting of the configuration:

  [tool.pytask.ini_options.markers]
  wip = "Work in progress."`,
	Example: `  # Show markers
  ptask markers

See Also: ptask config`,
	RunE: runMarkers,
}

type markerInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func runMarkers(cmd *cobra.Command, _ []string) error {
	r := resolvedFrom(cmd)
	if r == nil {
		return errors.New("configuration was not resolved")
	}

	if markersJSON {
		return outputMarkersJSON(cmd.OutOrStdout(), r.Settings)
	}
	return outputMarkersTable(cmd.OutOrStdout(), r.Settings)
}

func outputMarkersJSON(w io.Writer, s *config.Settings) error {
	out := make([]markerInfo, 0, len(s.Markers))
	for _, name := range s.MarkerNames() {
		out = append(out, markerInfo{Name: name, Description: s.Markers[name]})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func outputMarkersTable(w io.Writer, s *config.Settings) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MARKER\tDESCRIPTION")
	for _, name := range s.MarkerNames() {
		fmt.Fprintf(tw, "pytask.mark.%s\t%s\n", name, s.Markers[name])
	}
	return tw.Flush()
}
