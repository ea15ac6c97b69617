// Package interp locates the Python interpreter the dashboard is launched with.
//
// Resolution prefers the interpreter of an active virtual environment and
// otherwise falls back to the interpreter that would run for a bare "python"
// on PATH. Paths are never checked for existence; a bad path surfaces as a
// spawn failure when the dashboard is started.
package interp

import (
	"path/filepath"
)

// Prefixes is a snapshot of an interpreter's installation layout, mirroring
// sys.prefix, sys.base_prefix, sys.real_prefix and sys.executable.
type Prefixes struct {
	Prefix     string `json:"prefix"`
	BasePrefix string `json:"base_prefix"`
	RealPrefix string `json:"real_prefix"` // only set by legacy virtualenv
	Executable string `json:"executable"`
}

// InVirtualEnv reports whether the snapshot describes an isolated
// environment, either through the legacy real_prefix marker or a base prefix
// that differs from the active one.
func (p Prefixes) InVirtualEnv() bool {
	if p.RealPrefix != "" {
		return true
	}
	return p.BasePrefix != "" && p.BasePrefix != p.Prefix
}

// Resolve returns the interpreter path for p on the given GOOS.
func Resolve(p Prefixes, goos string) string {
	if !p.InVirtualEnv() {
		return p.Executable
	}
	return VenvPython(p.Prefix, goos)
}

// VenvPython builds the interpreter path inside a virtual environment rooted
// at prefix.
func VenvPython(prefix, goos string) string {
	if goos == "windows" {
		return filepath.Join(prefix, "Scripts", "python.exe")
	}
	return filepath.Join(prefix, "bin", "python")
}
