// Package config performs the configuration-resolution step for a
// packaging run.
//
// All ambient inputs — built-in defaults, SPEEDPACK_* environment
// variables, the optional pyproject.toml, and the packaging assets
// directory — are folded together with the command-line flags into a
// single model.BuildConfig before any side-effecting operation runs.
// Precedence: flags > environment > pyproject.toml > defaults.
//
// Validation follows the original toolchain's rules: explicitly provided
// inputs are checked eagerly (wheel must be an existing .whl, installer
// icon must match the platform's format, config file must parse as TOML);
// defaulted paths are trusted and left to the external tools to reject.
package config
