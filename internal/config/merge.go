package config

import (
	"context"
	"maps"
	"path/filepath"

	"github.com/thoreinstein/ptask/internal/errors"
)

// Keys the merger records next to the declared options.
const (
	RootKey   = "root"
	ConfigKey = "config"
)

// Request is the input of Merge.
type Request struct {
	// Registry lists all commands and their declared options.
	Registry Registry

	// Command is the name of the active command.
	Command string

	// UserSupplied holds the values typed explicitly on the command line.
	UserSupplied map[string]any

	// Paths are the paths the command was invoked with. Empty means the
	// working directory.
	Paths []string

	// ConfigFile, when set, bypasses the root search.
	ConfigFile string
}

// Result is the effective configuration of one invocation.
type Result struct {
	Root       string
	ConfigPath string

	// Params holds the merged parameters: borrowed defaults, overridden by
	// file values, overridden by explicit user values.
	Params map[string]any

	// Fallback holds the file values to apply to options the user did not
	// supply explicitly.
	Fallback map[string]any
}

// Merge computes the effective parameters for req. The inputs are not
// modified; the returned maps are owned by the caller.
func (r *Resolver) Merge(ctx context.Context, req Request) (*Result, error) {
	log := r.logger()

	params := BorrowedDefaults(req.Registry, req.Command)
	res := &Result{
		Params:   params,
		Fallback: make(map[string]any),
	}

	var invoked []string
	if req.ConfigFile != "" {
		configPath, err := r.absolute([]string{req.ConfigFile})
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", req.ConfigFile)
		}
		res.ConfigPath = configPath[0]
		res.Root = filepath.Dir(res.ConfigPath)

		invoked = req.Paths
		if len(invoked) == 0 {
			invoked = []string{res.Root}
		}
	} else {
		invoked = req.Paths
		if len(invoked) == 0 {
			wd, err := r.getwd()
			if err != nil {
				return nil, errors.Wrap(err, "getting working directory")
			}
			invoked = []string{wd}
		}

		loc, err := r.Locate(ctx, invoked)
		if err != nil {
			return nil, err
		}
		res.Root = loc.Root
		res.ConfigPath = loc.ConfigPath
	}

	normalized, err := r.absolute(invoked)
	if err != nil {
		return nil, err
	}
	params[PathsKey] = normalized
	params[RootKey] = res.Root
	if res.ConfigPath != "" {
		params[ConfigKey] = res.ConfigPath
	}

	if res.ConfigPath != "" {
		declared, err := r.declared(res.ConfigPath)
		if err != nil {
			return nil, err
		}
		maps.Copy(params, declared)
		maps.Copy(res.Fallback, declared)
		log.DebugContext(ctx, "loaded configuration", "config", res.ConfigPath, "options", len(declared))
	}

	maps.Copy(params, req.UserSupplied)

	log.DebugContext(ctx, "resolved configuration", "root", res.Root, "config", res.ConfigPath)
	return res, nil
}

// declared reads the configuration file chosen by Merge. A file given
// explicitly must contain the section.
func (r *Resolver) declared(path string) (map[string]any, error) {
	out := Read(r.fs(), path, DefaultSection)
	switch out.Status {
	case StatusFound:
		return out.Values, nil
	case StatusSectionAbsent:
		_, err := out.Result()
		return nil, errors.NewUserError(
			errors.Wrapf(err, "reading %s", path),
			"Add a [tool.pytask.ini_options] table to "+path)
	default:
		return nil, out.Err
	}
}
