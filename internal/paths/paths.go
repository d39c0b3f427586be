package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"

	"github.com/thoreinstein/ptask/internal/errors"
)

// AppName is the application name used for per-user directories.
const AppName = "ptask"

// StateDirName is the per-project state directory created below the root.
const StateDirName = ".pytask"

// Sentinel errors for path resolution.
var (
	// ErrNoCommonPath indicates the paths share no common ancestor, e.g.
	// because they live on different volumes.
	ErrNoCommonPath = errors.New("paths have no common ancestor")
)

// DefaultLogFile returns the log file used when --log-file is given
// without a value.
// On Linux: ~/.local/state/ptask/ptask.log
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

// StateDir returns the per-project state directory for root.
func StateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// Normalize makes every path absolute and clean. Relative paths are
// resolved against the current working directory.
func Normalize(paths []string) ([]string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}
	return NormalizeFrom(wd, paths), nil
}

// NormalizeFrom is like Normalize but resolves relative paths against base.
func NormalizeFrom(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}

// AllAbsolute reports whether every path is absolute.
func AllAbsolute(paths []string) bool {
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			return false
		}
	}
	return true
}

// CommonPath returns the longest common ancestor of the given absolute
// paths, compared component by component. It returns ErrNoCommonPath for
// an empty list, for relative paths and for paths on different volumes.
func CommonPath(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoCommonPath
	}

	vol := filepath.VolumeName(paths[0])
	var common []string
	for i, p := range paths {
		p = filepath.Clean(p)
		if !filepath.IsAbs(p) || !strings.EqualFold(filepath.VolumeName(p), vol) {
			return "", ErrNoCommonPath
		}
		parts := splitPath(p[len(vol):])
		if i == 0 {
			common = parts
			continue
		}
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}

	return vol + string(filepath.Separator) + filepath.Join(common...), nil
}

// splitPath splits a cleaned, volume-less absolute path into its
// components, dropping the leading separator.
func splitPath(p string) []string {
	var parts []string
	for part := range strings.SplitSeq(p, string(filepath.Separator)) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// Ancestors returns dir followed by each of its parents up to the
// filesystem root.
func Ancestors(dir string) []string {
	dir = filepath.Clean(dir)
	chain := []string{dir}
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return chain
		}
		chain = append(chain, parent)
		dir = parent
	}
}

// IsFileSystemCaseSensitive reports whether the filesystem holding the
// temporary directory distinguishes file names by case.
func IsFileSystemCaseSensitive() (bool, error) {
	f, err := os.CreateTemp("", "TmP*")
	if err != nil {
		return true, errors.Wrap(err, "creating case check file")
	}
	name := f.Name()
	f.Close()
	defer os.Remove(name)

	lower := filepath.Join(filepath.Dir(name), strings.ToLower(filepath.Base(name)))
	_, err = os.Stat(lower)
	return os.IsNotExist(err), nil
}

// ActualCasing returns path spelled the way the filesystem stores it. The
// returned bool is false when at least one component differs only by case.
// Components that do not exist are kept as given.
func ActualCasing(fsys afero.Fs, path string) (string, bool, error) {
	path = filepath.Clean(path)
	vol := filepath.VolumeName(path)
	actual := vol + string(filepath.Separator)
	exact := true

	for _, part := range splitPath(path[len(vol):]) {
		entries, err := afero.ReadDir(fsys, actual)
		if err != nil {
			if os.IsNotExist(err) {
				actual = filepath.Join(actual, part)
				continue
			}
			return "", false, errors.Wrapf(err, "listing %s", actual)
		}

		found := part
		for _, e := range entries {
			if e.Name() == part {
				found = part
				break
			}
			if strings.EqualFold(e.Name(), part) {
				found = e.Name()
			}
		}
		if found != part {
			exact = false
		}
		actual = filepath.Join(actual, found)
	}

	return actual, exact, nil
}
