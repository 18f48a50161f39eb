package cppcheck

import (
	"os"
	"path/filepath"
	"strings"
)

const projectArgPrefix = "--project="

// Invocation carries the configuration-derived inputs of one cppcheck
// invocation, independent of the output strategy.
type Invocation struct {
	// ExtraArgs is the user-configured argument string, split on
	// spaces. A --project=<path> argument has its path resolved via
	// ResolveProjectPath.
	ExtraArgs string

	// Standard is the language standard identifier (e.g. "c++17"),
	// or "<none>"/"" when no standard is configured.
	Standard string

	// WorkspaceRoot anchors relative --project= paths.
	WorkspaceRoot string
}

// NoStandard is the configuration value meaning no --std flag is passed
// and text-mode diagnostics carry an empty code.
const NoStandard = "<none>"

// HasStandard reports whether a language standard is configured.
func (inv Invocation) HasStandard() bool {
	return inv.Standard != "" && inv.Standard != NoStandard
}

// SplitArgs expands the extra-argument string into argv form. Splitting
// is on spaces; empty fields are dropped. Any --project= argument gets
// its path component resolved against the workspace root.
func (inv Invocation) SplitArgs() []string {
	fields := strings.Fields(inv.ExtraArgs)
	args := make([]string, 0, len(fields))
	for _, f := range fields {
		if path, ok := strings.CutPrefix(f, projectArgPrefix); ok {
			f = projectArgPrefix + ResolveProjectPath(path, inv.WorkspaceRoot)
		}
		args = append(args, f)
	}
	return args
}

// ResolveProjectPath resolves a --project= path component:
//   - absolute paths are kept as-is
//   - "~" and "~/..." resolve against the user's home directory
//   - "./..." and other relative paths are joined to the workspace root
//
// When the workspace root is unknown the path is returned unchanged.
func ResolveProjectPath(path, workspaceRoot string) string {
	switch {
	case path == "":
		return path
	case filepath.IsAbs(path):
		return path
	case path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`):
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	case workspaceRoot != "":
		return filepath.Join(workspaceRoot, strings.TrimPrefix(path, "./"))
	default:
		return path
	}
}
