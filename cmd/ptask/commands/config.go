package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/ptask/internal/config"
	"github.com/thoreinstein/ptask/internal/errors"
)

// Output formats of the config command.
const (
	formatYAML = "yaml"
	formatJSON = "json"
	formatTOML = "toml"
)

var configFormat string

func init() {
	registerCommand(configCmd,
		option{name: "format", value: formatYAML, usage: "output format: yaml, json, toml", target: &configFormat},
	)
}

var configCmd = &cobra.Command{
	Use:   "config [PATHS]...",
	Short: "Show the effective configuration",
	Long: `Show the project root, the configuration file and every effective
parameter after merging option defaults, the [tool.pytask.ini_options]
table and the options given on the command line.`,
	Example: `  # Show the configuration as YAML
  ptask config

  # Show the configuration of another project as JSON
  ptask config --format json ../other

See Also: ptask collect, ptask markers`,
	RunE: runConfig,
}

// effectiveConfig is the document printed by the config command.
type effectiveConfig struct {
	Root       string         `json:"root" yaml:"root" toml:"root"`
	ConfigPath string         `json:"config_path,omitempty" yaml:"config_path,omitempty" toml:"config_path,omitempty"`
	Parameters map[string]any `json:"parameters" yaml:"parameters" toml:"parameters"`
	FromFile   []string       `json:"from_file" yaml:"from_file" toml:"from_file"`
}

func runConfig(cmd *cobra.Command, _ []string) error {
	r := resolvedFrom(cmd)
	if r == nil {
		return errors.New("configuration was not resolved")
	}
	return outputConfig(cmd.OutOrStdout(), r.Result, configFormat)
}

func outputConfig(w io.Writer, res *config.Result, format string) error {
	doc := effectiveConfig{
		Root:       res.Root,
		ConfigPath: res.ConfigPath,
		Parameters: printable(res.Params),
		FromFile:   sortedKeys(res.Fallback),
	}

	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		return nil
	case formatTOML:
		data, err := toml.Marshal(doc)
		if err != nil {
			return errors.Wrap(err, "encoding TOML")
		}
		_, err = w.Write(data)
		return err
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", format),
			fmt.Sprintf("Use --format %s, %s or %s", formatYAML, formatJSON, formatTOML))
	}
}

// printable drops values no encoder can represent.
func printable(params map[string]any) map[string]any {
	out := maps.Clone(params)
	maps.DeleteFunc(out, func(_ string, v any) bool { return v == nil })
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := slices.Sorted(maps.Keys(m))
	if keys == nil {
		return []string{}
	}
	return keys
}
