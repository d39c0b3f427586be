package tasks

import (
	"path"
	"reflect"
	"runtime"
	"testing"

	"github.com/spf13/afero"

	"github.com/thoreinstein/ptask/internal/config"
)

func newFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("in-memory filesystem uses POSIX paths")
	}
	fsys := afero.NewMemMapFs()
	for _, f := range files {
		if err := fsys.MkdirAll(path.Dir(f), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fsys, f, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fsys
}

func mustCollect(t *testing.T, fsys afero.Fs, s *config.Settings, want []string) {
	t.Helper()
	got, err := Collect(fsys, s)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestCollect(t *testing.T) {
	fsys := newFs(t,
		"/repo/pyproject.toml",
		"/repo/src/task_data.py",
		"/repo/src/helpers.py",
		"/repo/src/sub/task_plot.py",
		"/repo/.git/task_hook.py",
		"/repo/build/task_copy.py",
		"/repo/scratch/task_tmp.py",
	)

	s := &config.Settings{
		Root:      "/repo",
		Paths:     []string{"/repo"},
		TaskFiles: []string{config.DefaultTaskFiles},
		Ignore:    append([]string{"scratch/*"}, config.IgnoredTemporaryFilesAndFolders...),
	}
	s.Ignore = append(s.Ignore, ".git/*")

	mustCollect(t, fsys, s, []string{"/repo/src/sub/task_plot.py", "/repo/src/task_data.py"})
}

func TestCollect_FilesAndDuplicates(t *testing.T) {
	fsys := newFs(t, "/repo/src/task_a.py", "/repo/src/other.py")

	s := &config.Settings{
		Paths:     []string{"/repo/src", "/repo/src/task_a.py", "/repo/src/other.py"},
		TaskFiles: []string{"task_*.py"},
	}

	mustCollect(t, fsys, s, []string{"/repo/src/task_a.py"})
}

func TestCollect_MultiplePatterns(t *testing.T) {
	fsys := newFs(t, "/repo/task_a.py", "/repo/tasks_b.py", "/repo/c.py")

	s := &config.Settings{
		Paths:     []string{"/repo"},
		TaskFiles: []string{"task_*.py", "tasks_*.py"},
	}

	mustCollect(t, fsys, s, []string{"/repo/task_a.py", "/repo/tasks_b.py"})
}

func TestCollect_MissingPath(t *testing.T) {
	fsys := newFs(t)
	if _, err := Collect(fsys, &config.Settings{Paths: []string{"/nope"}}); err == nil {
		t.Error("Collect() on a missing path should fail")
	}
}

func TestIgnored(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"/repo/.git/HEAD", []string{".git/*"}, true},
		{"/repo/.git", []string{".git/*"}, false},
		{"/repo/pkg.egg-info/PKG-INFO", []string{"*.egg-info/*"}, true},
		{"/repo/pyproject.toml", []string{"pyproject.toml"}, true},
		{"/repo/src/pyproject.toml", []string{"pyproject.toml"}, true},
		{"/repo/src/a.py", []string{"/repo/*"}, false},
		{"/repo/a.py", []string{"/repo/*"}, true},
		{"/repo/a.py", []string{"deep/nested/repo/a.py"}, false},
		{"/repo/a.py", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Ignored(tt.path, tt.patterns); got != tt.want {
				t.Errorf("Ignored(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
			}
		})
	}
}
