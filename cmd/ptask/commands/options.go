package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/ptask/internal/config"
	"github.com/thoreinstein/ptask/internal/errors"
)

// configFlag names the flag that bypasses the root search. It is handled
// by the resolver itself and is not part of the option tables.
const configFlag = "config"

// option declares a configurable command-line option. Names use the
// snake_case spelling of the configuration file; flags use dashes.
type option struct {
	name      string
	shorthand string
	value     any
	usage     string

	// target, when set, points to the variable bound to the flag. Its type
	// must match value.
	target any
}

type registered struct {
	cmd     *cobra.Command
	options []option
}

// registeredCommands lists the configurable commands in registration order.
var registeredCommands []registered

// registerCommand adds cmd to the root command, declares its options and
// the --config flag, and resolves the configuration before it runs.
func registerCommand(cmd *cobra.Command, options ...option) {
	for _, o := range options {
		addOption(cmd.Flags(), o)
	}
	cmd.Flags().String(configFlag, "", "path to a configuration file, skipping discovery")
	cmd.PreRunE = resolveConfig

	registeredCommands = append(registeredCommands, registered{cmd: cmd, options: options})
	rootCmd.AddCommand(cmd)
}

func addOption(fs *pflag.FlagSet, o option) {
	name := flagName(o.name)
	switch v := o.value.(type) {
	case bool:
		fs.BoolVarP(bindTarget[bool](o), name, o.shorthand, v, o.usage)
	case int:
		fs.IntVarP(bindTarget[int](o), name, o.shorthand, v, o.usage)
	case []string:
		fs.StringSliceVarP(bindTarget[[]string](o), name, o.shorthand, v, o.usage)
	case string:
		fs.StringVarP(bindTarget[string](o), name, o.shorthand, v, o.usage)
	default:
		panic(fmt.Sprintf("option %s: unsupported default type %T", o.name, o.value))
	}
}

func bindTarget[T any](o option) *T {
	if o.target == nil {
		return new(T)
	}
	p, ok := o.target.(*T)
	if !ok {
		panic(fmt.Sprintf("option %s: target %T does not match default %T", o.name, o.target, o.value))
	}
	return p
}

// commandRegistry builds the registry from the static option tables.
func commandRegistry() config.Registry {
	reg := make(config.Registry, 0, len(registeredCommands))
	for _, r := range registeredCommands {
		c := config.Command{Name: r.cmd.Name()}
		for _, o := range r.options {
			c.Options = append(c.Options, config.Option{Name: o.name, Default: o.value})
		}
		reg = append(reg, c)
	}
	return reg
}

func optionsOf(cmd *cobra.Command) []option {
	for _, r := range registeredCommands {
		if r.cmd == cmd {
			return r.options
		}
	}
	return nil
}

func flagName(option string) string {
	return strings.ReplaceAll(option, "_", "-")
}

// explicitOptions returns the options of cmd the user typed.
func explicitOptions(cmd *cobra.Command, options []option) (map[string]any, error) {
	out := make(map[string]any)
	for _, o := range options {
		f := cmd.Flags().Lookup(flagName(o.name))
		if f == nil || !f.Changed {
			continue
		}
		v, err := flagValue(f)
		if err != nil {
			return nil, errors.Wrapf(err, "reading --%s", f.Name)
		}
		out[o.name] = v
	}
	return out, nil
}

func flagValue(f *pflag.Flag) (any, error) {
	switch f.Value.Type() {
	case "bool":
		return strconv.ParseBool(f.Value.String())
	case "int":
		return strconv.Atoi(f.Value.String())
	}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		return sv.GetSlice(), nil
	}
	return f.Value.String(), nil
}

// applyFallback sets every option of cmd the user did not type to its
// value from the configuration file. Explicit values are never touched.
func applyFallback(cmd *cobra.Command, options []option, fallback map[string]any, configPath string) error {
	for _, o := range options {
		v, ok := fallback[o.name]
		if !ok {
			continue
		}
		f := cmd.Flags().Lookup(flagName(o.name))
		if f == nil || f.Changed {
			continue
		}
		if err := setFlag(f, v); err != nil {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrInvalidOption, "%s = %v: %v", o.name, v, err),
				"Fix the value of "+o.name+" in "+configPath)
		}
	}
	return nil
}

func setFlag(f *pflag.Flag, v any) error {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		items, err := stringItems(v)
		if err != nil {
			return err
		}
		return sv.Replace(items)
	}

	switch v.(type) {
	case []any, []string, map[string]any:
		return errors.Newf("expected a single value, got %T", v)
	}
	return f.Value.Set(fmt.Sprint(v))
}

func stringItems(v any) ([]string, error) {
	switch items := v.(type) {
	case []string:
		return items, nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			switch item.(type) {
			case []any, map[string]any:
				return nil, errors.Newf("expected a list of scalars, got element %T", item)
			}
			out = append(out, fmt.Sprint(item))
		}
		return out, nil
	case string:
		return []string{items}, nil
	default:
		return nil, errors.Newf("expected a list, got %T", v)
	}
}
