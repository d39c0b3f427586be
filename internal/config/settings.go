package config

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/ptask/internal/errors"
	"github.com/thoreinstein/ptask/internal/logging"
	"github.com/thoreinstein/ptask/internal/paths"
)

// Option names interpreted by Configure.
const (
	IgnoreKey      = "ignore"
	MarkersKey     = "markers"
	TaskFilesKey   = "task_files"
	CheckCasingKey = "check_casing_of_paths"
	DebugKey       = "debug_pytask"
)

// settingsKeys are the parameters decoded into Settings by viper.
var settingsKeys = []string{RootKey, ConfigKey, PathsKey, TaskFilesKey, CheckCasingKey, DebugKey}

// DefaultTaskFiles is the pattern of task module names.
const DefaultTaskFiles = "task_*.py"

// ignoredFiles are project files that never contain tasks.
var ignoredFiles = []string{
	".codecov.yml",
	".gitignore",
	".pre-commit-config.yaml",
	".readthedocs.yml",
	".readthedocs.yaml",
	"readthedocs.yml",
	"readthedocs.yaml",
	"environment.yml",
	"pyproject.toml",
	"setup.cfg",
	"tox.ini",
}

var ignoredFolders = []string{".git/*", ".venv/*"}

// IgnoredTemporaryFilesAndFolders are build and cache outputs of common
// tools.
var IgnoredTemporaryFilesAndFolders = []string{
	"*.egg-info/*",
	".ipynb_checkpoints/*",
	".mypy_cache/*",
	".nox/*",
	".tox/*",
	"_build/*",
	"__pycache__/*",
	"build/*",
	"dist/*",
	"pytest_cache/*",
}

// builtinMarkers are always available.
var builtinMarkers = map[string]string{
	"try_first": "Try to execute a task a early as possible.",
	"try_last":  "Try to execute a task a late as possible.",
}

// Settings is the typed view of the effective parameters.
type Settings struct {
	Root               string            `mapstructure:"root"`
	Config             string            `mapstructure:"config"`
	Paths              []string          `mapstructure:"paths"`
	Ignore             []string          `mapstructure:"-"`
	Markers            map[string]string `mapstructure:"-"`
	TaskFiles          []string          `mapstructure:"task_files"`
	CheckCasingOfPaths bool              `mapstructure:"check_casing_of_paths"`
	DebugPytask        bool              `mapstructure:"debug_pytask"`
}

// MarkerNames returns the configured marker names in alphabetical order.
func (s *Settings) MarkerNames() []string {
	return slices.Sorted(maps.Keys(s.Markers))
}

// Configure interprets the merged parameters: it decodes them into
// Settings, appends the built-in ignore patterns and markers, creates the
// project state directory and applies debug_pytask. params is not
// modified.
func (r *Resolver) Configure(ctx context.Context, params map[string]any) (*Settings, error) {
	log := r.logger()

	if raw, ok := params[PathsKey].([]any); ok {
		for _, item := range raw {
			if _, ok := item.(string); !ok {
				return nil, errors.Wrapf(errors.ErrInvalidConfig,
					"%s must be a list of strings, got element %v (%T)", PathsKey, item, item)
			}
		}
	}

	markers, err := parseMarkers(params[MarkersKey])
	if err != nil {
		return nil, err
	}
	ignore, err := toList(params[IgnoreKey])
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", IgnoreKey)
	}

	v := viper.New()
	v.SetDefault(TaskFilesKey, []string{DefaultTaskFiles})
	v.SetDefault(CheckCasingKey, true)

	// Viper rewrites the keys of nested tables in place, so it only gets
	// copies of the keys Settings decodes.
	decoded := make(map[string]any, len(settingsKeys))
	for _, k := range settingsKeys {
		if val, ok := params[k]; ok {
			decoded[k] = deepCopy(val)
		}
	}
	if err := v.MergeConfigMap(decoded); err != nil {
		return nil, errors.Wrap(err, "merging parameters")
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, err.Error())
	}

	if s.Root == "" {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "root is not set")
	}
	if len(s.Paths) == 0 {
		s.Paths = []string{s.Root}
	}
	if s.Paths, err = r.absolute(s.Paths); err != nil {
		return nil, err
	}

	s.Ignore = slices.Concat(ignore, ignoredFiles, ignoredFolders, IgnoredTemporaryFilesAndFolders)
	s.Markers = maps.Clone(builtinMarkers)
	maps.Copy(s.Markers, markers)

	if err := r.fs().MkdirAll(paths.StateDir(s.Root), 0o755); err != nil {
		return nil, errors.NewSystemError(
			errors.Wrap(err, "creating state directory"),
			"Check the permissions of "+s.Root)
	}

	if s.DebugPytask && r.Level != nil {
		r.Level.Set(logging.LevelTrace)
	}

	if s.CheckCasingOfPaths {
		r.checkCasing(ctx, s.Paths)
	}

	log.DebugContext(ctx, "configured", "paths", s.Paths, "task_files", s.TaskFiles, "markers", len(s.Markers))
	return &s, nil
}

// checkCasing warns about paths spelled with a different case than on disk.
// It only matters on filesystems that ignore case.
func (r *Resolver) checkCasing(ctx context.Context, in []string) {
	if r.CaseSensitive == nil {
		return
	}
	sensitive, err := r.CaseSensitive()
	if err != nil || sensitive {
		return
	}

	log := r.logger()
	for _, p := range in {
		actual, exact, err := paths.ActualCasing(r.fs(), p)
		if err != nil {
			log.DebugContext(ctx, "checking path casing", "path", p, "error", err)
			continue
		}
		if !exact {
			log.WarnContext(ctx, "path casing differs from the filesystem", "path", p, "actual", actual)
		}
	}
}

// parseMarkers accepts a table of name to description, a list of
// "name: description" entries or a multi-line string of such entries.
func parseMarkers(raw any) (map[string]string, error) {
	out := make(map[string]string)

	switch v := raw.(type) {
	case nil:
		return out, nil
	case map[string]any:
		for name, desc := range v {
			out[name] = fmt.Sprint(desc)
		}
		return out, nil
	case map[string]string:
		maps.Copy(out, v)
		return out, nil
	}

	lines, err := toList(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", MarkersKey)
	}
	for _, line := range lines {
		for entry := range strings.Lines(line) {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			name, desc, _ := strings.Cut(entry, ":")
			out[strings.TrimSpace(name)] = strings.TrimSpace(desc)
		}
	}
	return out, nil
}

// toList converts a string or a list of strings into a list.
func toList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return slices.Clone(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Wrapf(errors.ErrInvalidConfig, "expected string, got %v (%T)", item, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "expected string or list of strings, got %T", raw)
	}
}

// deepCopy copies the tables and lists of a decoded TOML value.
func deepCopy(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = deepCopy(item)
		}
		return out
	case []string:
		return slices.Clone(v)
	default:
		return v
	}
}
