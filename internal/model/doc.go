// Package model defines the domain types and value objects for the
// speedpack CLI.
//
// This package contains pure data structures with no external dependencies.
// The central entity is BuildConfig — the fully resolved set of options for
// one packaging run. It is constructed once (by internal/config) before any
// side-effecting operation and never mutated afterwards.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
// Failures of external tools (pip, PyInstaller, cpack) propagate the tool's
// own exit code unchanged; the named codes here cover failures detected
// before any tool runs.
package model
