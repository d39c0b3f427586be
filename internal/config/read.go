package config

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/thoreinstein/ptask/internal/errors"
	"github.com/thoreinstein/ptask/pkg/fileutil"
)

// ManifestName is the project manifest searched for while locating the root.
const ManifestName = "pyproject.toml"

// DefaultSection is the section address of ptask's settings in the manifest.
const DefaultSection = "tool.pytask.ini_options"

// PathsKey is the reserved option whose string list values are resolved
// against the directory of the configuration file.
const PathsKey = "paths"

// maxManifestSize bounds the configuration files Read accepts.
var maxManifestSize int64 = 64 << 20

// ErrSectionNotFound indicates the section address does not exist in an
// otherwise well-formed document.
var ErrSectionNotFound = errors.New("section not found")

// Status tags the outcome of reading a configuration file.
type Status int

const (
	// StatusFound means the section was found and decoded.
	StatusFound Status = iota
	// StatusSectionAbsent means the document is valid but lacks the section.
	StatusSectionAbsent
	// StatusDecodeError means the file could not be read or decoded.
	StatusDecodeError
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusSectionAbsent:
		return "section absent"
	case StatusDecodeError:
		return "decode error"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of Read.
type Outcome struct {
	Status Status

	// Values holds the flattened section when Status is StatusFound.
	Values map[string]any

	// Missing is the first key of the section address that was not found
	// when Status is StatusSectionAbsent.
	Missing string

	// Err is a *errors.FileError when Status is StatusDecodeError.
	Err error
}

// Result converts the outcome into the conventional (value, error) form.
// A missing section is reported as ErrSectionNotFound.
func (o Outcome) Result() (map[string]any, error) {
	switch o.Status {
	case StatusFound:
		return o.Values, nil
	case StatusSectionAbsent:
		return nil, errors.Wrapf(ErrSectionNotFound, "missing key %q", o.Missing)
	default:
		return nil, o.Err
	}
}

// Read loads the TOML document at path from fsys and selects the table at
// the dotted section address. Read never panics and never returns a nil
// Outcome; callers switch on Status.
func Read(fsys afero.Fs, path, section string) Outcome {
	data, err := fileutil.ReadFileWithLimit(fsys, path, maxManifestSize)
	if err != nil {
		return decodeFailure(path, err)
	}
	if !utf8.Valid(data) {
		return decodeFailure(path, errors.New("file is not valid UTF-8"))
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return decodeFailure(path, describeDecodeError(err))
	}

	table := doc
	for key := range strings.SplitSeq(section, ".") {
		next, ok := table[key].(map[string]any)
		if !ok {
			return Outcome{Status: StatusSectionAbsent, Missing: key}
		}
		table = next
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return decodeFailure(path, err)
	}
	resolvePaths(table, dir)

	return Outcome{Status: StatusFound, Values: table}
}

// ReadFile reads the section of the manifest at path from the OS filesystem.
func ReadFile(path, section string) (map[string]any, error) {
	return Read(afero.NewOsFs(), path, section).Result()
}

func decodeFailure(path string, err error) Outcome {
	return Outcome{Status: StatusDecodeError, Err: errors.NewFileError(path, err)}
}

// describeDecodeError adds the position of a TOML syntax error.
func describeDecodeError(err error) error {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return errors.Wrapf(err, "line %d, column %d", row, col)
	}
	return err
}

// resolvePaths rewrites the reserved paths key when, and only when, it is a
// list of strings. Any other shape is left for a later layer to reject.
func resolvePaths(table map[string]any, dir string) {
	raw, ok := table[PathsKey].([]any)
	if !ok {
		return
	}

	resolved := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return
		}
		if !filepath.IsAbs(s) {
			s = filepath.Join(dir, s)
		}
		resolved = append(resolved, filepath.Clean(s))
	}
	table[PathsKey] = resolved
}
