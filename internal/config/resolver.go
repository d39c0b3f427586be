package config

import (
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/thoreinstein/ptask/internal/errors"
	"github.com/thoreinstein/ptask/internal/logging"
	"github.com/thoreinstein/ptask/internal/paths"
)

// Resolver locates, reads and merges the configuration of one invocation.
// A Resolver holds no state between calls.
type Resolver struct {
	// Fs is the filesystem searched and read. Defaults to the OS filesystem.
	Fs afero.Fs

	// Getwd returns the directory used when no paths are given.
	Getwd func() (string, error)

	// Logger receives trace output of the root search.
	Logger *slog.Logger

	// Level, when set, is lowered to trace by the debug_pytask option.
	Level *slog.LevelVar

	// CaseSensitive reports whether the filesystem distinguishes case.
	CaseSensitive func() (bool, error)
}

// NewResolver returns a Resolver backed by the OS filesystem.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Resolver{
		Fs:            afero.NewOsFs(),
		Getwd:         os.Getwd,
		Logger:        logger,
		CaseSensitive: paths.IsFileSystemCaseSensitive,
	}
}

func (r *Resolver) fs() afero.Fs {
	if r.Fs == nil {
		return afero.NewOsFs()
	}
	return r.Fs
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewDiscard()
	}
	return r.Logger
}

func (r *Resolver) getwd() (string, error) {
	if r.Getwd == nil {
		return os.Getwd()
	}
	return r.Getwd()
}

// absolute resolves relative entries of in against the working directory
// returned by Getwd.
func (r *Resolver) absolute(in []string) ([]string, error) {
	if paths.AllAbsolute(in) {
		return paths.NormalizeFrom("", in), nil
	}
	wd, err := r.getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}
	return paths.NormalizeFrom(wd, in), nil
}
