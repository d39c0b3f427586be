// Package fileutil provides file system helpers shared by the configuration
// engine and the task collector.
package fileutil

import (
	"io"

	"github.com/spf13/afero"

	"github.com/thoreinstein/ptask/internal/errors"
)

// MaxFileSize is the default read limit (1MB).
// This prevents memory exhaustion from maliciously large files.
const MaxFileSize = 1024 * 1024 // 1MB

// ErrFileTooLarge indicates that a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file too large")

// ReadFileWithLimit reads a file from fsys up to limit bytes. A limit of
// zero or less means MaxFileSize.
// It returns an error wrapping ErrFileTooLarge if the file is larger.
func ReadFileWithLimit(fsys afero.Fs, path string, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = MaxFileSize
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Get file info to fail fast if size is already too large
	info, err := f.Stat()
	if err == nil {
		if info.IsDir() {
			return nil, errors.Newf("%s is a directory", path)
		}
		if info.Size() > limit {
			return nil, tooLarge(limit)
		}
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, tooLarge(limit)
	}

	return data, nil
}

func tooLarge(limit int64) error {
	return errors.Wrapf(ErrFileTooLarge, "exceeds maximum size of %d bytes", limit)
}
