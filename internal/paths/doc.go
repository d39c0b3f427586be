// Package paths provides path utilities for locating ptask projects.
//
// It computes common ancestors of the paths a command was invoked with,
// builds the chain of parent directories searched for a project manifest,
// normalizes user supplied paths and checks path casing on filesystems that
// ignore case.
//
// # XDG Base Directory Compliance
//
// Per-user locations (currently only the default log file) are derived
// from github.com/adrg/xdg:
//
//	paths.DefaultLogFile() // ~/.local/state/ptask/ptask.log
//
// # Common Ancestors
//
// [CommonPath] mirrors a component-wise longest common prefix:
//
//	paths.CommonPath([]string{"/repo/src/a.py", "/repo/docs"}) // "/repo"
//
// Paths on different volumes have no common ancestor and yield
// [ErrNoCommonPath].
package paths
