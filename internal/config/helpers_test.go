package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/thoreinstein/ptask/internal/logging"
)

const validManifest = `[project]
name = "example"

[tool.pytask.ini_options]
paths = ["src", "tasks"]
markers = { wip = "Work in progress." }
`

const foreignManifest = `[project]
name = "example"

[tool.black]
line-length = 88
`

// writeFile creates path and its parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

// newTestResolver returns a resolver on the OS filesystem whose working
// directory is wd.
func newTestResolver(t *testing.T, wd string) *Resolver {
	t.Helper()
	r := NewResolver(logging.ForTest(t))
	r.Getwd = func() (string, error) { return wd, nil }
	return r
}

// newMemResolver returns a resolver on an in-memory filesystem.
func newMemResolver(t *testing.T, wd string) (*Resolver, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	r := newTestResolver(t, wd)
	r.Fs = fsys
	return r, fsys
}
