package config

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/ptask/internal/errors"
	"github.com/thoreinstein/ptask/internal/logging"
	"github.com/thoreinstein/ptask/internal/paths"
)

// GitMarker marks the top of a repository. The root search never goes
// above a directory containing it.
const GitMarker = ".git"

// Resolution is the outcome of the root search.
type Resolution struct {
	// Root is the project root directory. It is never empty.
	Root string

	// ConfigPath is the manifest inside Root holding ptask's section, or
	// empty when there is none.
	ConfigPath string
}

// Locate finds the project root and configuration file for paths.
// Relative paths are resolved against the resolver's working directory.
//
// The search starts at the common ancestor of paths (the working directory
// when there is none) and walks upwards. It stops at the first directory
// whose pyproject.toml contains the tool.pytask.ini_options section, or at
// the first directory containing .git. A manifest without the section is
// skipped; a manifest that cannot be decoded aborts the search with a
// *errors.FileError.
func (r *Resolver) Locate(ctx context.Context, in []string) (Resolution, error) {
	fsys := r.fs()
	log := r.logger()

	abs, err := r.absolute(in)
	if err != nil {
		return Resolution{}, err
	}

	ancestor, err := paths.CommonPath(abs)
	if err != nil {
		ancestor, err = r.getwd()
		if err != nil {
			return Resolution{}, errors.Wrap(err, "getting working directory")
		}
	}

	if isDir, err := afero.IsDir(fsys, ancestor); err == nil && !isDir {
		ancestor = filepath.Dir(ancestor)
	}

	for _, dir := range paths.Ancestors(ancestor) {
		log.Log(ctx, logging.LevelTrace, "inspecting directory", "dir", dir)

		manifest := filepath.Join(dir, ManifestName)
		if exists(fsys, manifest) {
			out := Read(fsys, manifest, DefaultSection)
			switch out.Status {
			case StatusFound:
				log.DebugContext(ctx, "found configuration", "config", manifest)
				return Resolution{Root: dir, ConfigPath: manifest}, nil
			case StatusSectionAbsent:
				log.Log(ctx, logging.LevelTrace, "manifest has no ptask section",
					"manifest", manifest, "missing", out.Missing)
			case StatusDecodeError:
				return Resolution{}, out.Err
			}
		}

		if exists(fsys, filepath.Join(dir, GitMarker)) {
			log.DebugContext(ctx, "stopping at repository boundary", "root", dir)
			return Resolution{Root: dir}, nil
		}
	}

	log.DebugContext(ctx, "no project root marker found", "root", ancestor)
	return Resolution{Root: ancestor}, nil
}

func exists(fsys afero.Fs, path string) bool {
	ok, err := afero.Exists(fsys, path)
	return err == nil && ok
}
