// Package tasks discovers task modules below the configured paths.
package tasks

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/ptask/internal/config"
	"github.com/thoreinstein/ptask/internal/errors"
)

// Collect returns the absolute paths of all task modules below
// s.Paths, sorted and without duplicates. A path that is itself a file is
// collected when its name matches s.TaskFiles.
func Collect(fsys afero.Fs, s *config.Settings) ([]string, error) {
	var found []string

	for _, root := range s.Paths {
		info, err := fsys.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "collecting %s", root)
		}

		if !info.IsDir() {
			if isTaskFile(filepath.Base(root), s.TaskFiles) {
				found = append(found, root)
			}
			continue
		}

		err = afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if Ignored(path, s.Ignore) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !info.IsDir() && isTaskFile(info.Name(), s.TaskFiles) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", root)
		}
	}

	slices.Sort(found)
	return slices.Compact(found), nil
}

func isTaskFile(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Ignored reports whether path matches one of the patterns. Relative
// patterns match the trailing components of path, so ".git/*" matches
// every entry directly inside any .git directory. Absolute patterns must
// match the whole path.
func Ignored(path string, patterns []string) bool {
	for _, p := range patterns {
		if matchTrailing(p, path) {
			return true
		}
	}
	return false
}

func matchTrailing(pattern, path string) bool {
	patParts := split(filepath.ToSlash(pattern))
	pathParts := split(filepath.ToSlash(path))

	if filepath.IsAbs(pattern) {
		if len(patParts) != len(pathParts) {
			return false
		}
	} else if len(patParts) > len(pathParts) {
		return false
	}

	tail := pathParts[len(pathParts)-len(patParts):]
	for i, p := range patParts {
		if ok, _ := filepath.Match(p, tail[i]); !ok {
			return false
		}
	}
	return len(patParts) > 0
}

func split(p string) []string {
	return slices.DeleteFunc(strings.Split(p, "/"), func(s string) bool { return s == "" })
}
