// Package version exposes build version information for flint.
package version

import (
	"runtime"
	"runtime/debug"
	"slices"
)

var version = "dev"

// Version returns the current version string, with the VCS revision
// appended when available from build info.
func Version() string {
	if commit := Commit(); commit != "" {
		return version + " (" + commit + ")"
	}
	return version
}

// RawVersion returns the semantic version string without any suffix.
func RawVersion() string {
	return version
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

// Info bundles the build details for structured output.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"go_version"`
}

// GetInfo returns the build details of the running binary.
func GetInfo() Info {
	return Info{
		Version:   RawVersion(),
		Commit:    Commit(),
		GoVersion: GoVersion(),
	}
}

// Commit returns the abbreviated VCS revision embedded at build time,
// or "" when the binary was built outside a checkout.
func Commit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	idx := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	})
	if idx < 0 {
		return ""
	}
	val := info.Settings[idx].Value
	if len(val) > 12 {
		return val[:12]
	}
	return val
}
