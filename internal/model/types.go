package model

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// BuildConfig is the fully resolved configuration for one packaging run.
//
// All values are resolved up front by internal/config (flags > environment >
// pyproject.toml > built-in defaults) so that the pipeline stages never read
// ambient process state themselves. Input paths are validated to exist at
// resolution time; output paths (BuildPath, DistPath) are created on demand.
type BuildConfig struct {
	// WheelPath is the Python wheel (.whl) being packaged.
	WheelPath string

	// BuildPath is the scratch directory for intermediate build output
	// (package environment, spec file, hooks, PyInstaller work dir).
	BuildPath string

	// DistPath is where the frozen tree and the installer artifact land.
	DistPath string

	// VenvPath is the tooling virtual environment that carries pip,
	// PyInstaller, and cpack. Reused across runs when already provisioned.
	VenvPath string

	// BasePython is the interpreter used to create VenvPath when it does
	// not exist yet.
	BasePython string

	// InstallerIcon is the icon embedded in the installer artifact
	// (.ico on Windows, .icns on macOS).
	InstallerIcon string

	// AppIcon is the icon baked into the frozen executable (.ico).
	AppIcon string

	// BootstrapScript is the Python entry-point script the frozen
	// application executes on launch.
	BootstrapScript string

	// AppName is the human-facing application name (e.g. "Speedwagon").
	AppName string

	// AppExecutableName is the file name of the frozen executable.
	AppExecutableName string

	// CollectionName is the directory name PyInstaller collects the
	// frozen tree into.
	CollectionName string

	// Requirements lists extra pip requirement files installed into the
	// package environment alongside the wheel.
	Requirements []string

	// LicenseFile is an optional explicit EULA file. When empty, the
	// license is resolved from the wheel metadata or the working directory.
	LicenseFile string

	// ConfigFile is an optional pyproject.toml carrying installer settings.
	ConfigFile string

	// ForceRebuild discards a valid package environment and rebuilds it.
	ForceRebuild bool

	// PackageVendor is the vendor string stamped into the installer.
	PackageVendor string

	// PipExtraIndexURL is forwarded to pip as PIP_EXTRA_INDEX_URL.
	// Only set in CI environments that mirror the package index.
	PipExtraIndexURL string

	// PyInstallerPin is the exact freezing-tool requirement installed into
	// the tooling venv (e.g. "PyInstaller==6.10.0").
	PyInstallerPin string

	// WixConfigVariables holds CPACK_WIX_* overrides read from
	// [tool.windows_standalone_packager.cpack_config_variables] in
	// pyproject.toml. Windows only.
	WixConfigVariables map[string]string
}

// PackageEnvPath is the directory under BuildPath where the wheel and its
// requirements are installed with pip --target. This is the tree PyInstaller
// analyzes.
func (c *BuildConfig) PackageEnvPath() string {
	return filepath.Join(c.BuildPath, "speedwagon")
}

// SpecFilePath is where the generated PyInstaller spec file is written.
func (c *BuildConfig) SpecFilePath() string {
	return filepath.Join(c.BuildPath, "specs.spec")
}

// HooksPath is the directory holding generated PyInstaller hook files.
func (c *BuildConfig) HooksPath() string {
	return filepath.Join(c.BuildPath, "hooks")
}

// WorkPath is PyInstaller's scratch directory.
func (c *BuildConfig) WorkPath() string {
	return filepath.Join(c.BuildPath, "workpath")
}

// ValidateWheelPath checks that path names an existing regular file with a
// .whl extension. Mirrors the checks done on the wheel positional argument.
func ValidateWheelPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%q does not exist", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%q is not a file", path)
	}
	if !strings.HasSuffix(info.Name(), ".whl") {
		return fmt.Errorf("%q is not a wheel", path)
	}
	return nil
}

// ValidateInstallerIcon checks that path exists and carries the icon format
// the platform's installer toolchain requires: .icns for darwin, .ico for
// windows. Other platforms are rejected later by the generator selection,
// so no extension check applies here.
func ValidateInstallerIcon(path, goos string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%q does not exist", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%q is not a file", path)
	}
	switch goos {
	case "darwin":
		if !strings.HasSuffix(info.Name(), ".icns") {
			return errors.New("installer icon for macOS requires a .icns icon file")
		}
	case "windows":
		if !strings.HasSuffix(info.Name(), ".ico") {
			return errors.New("installer icon for Windows requires a .ico icon file")
		}
	}
	return nil
}

// ValidateAppIcon checks the application icon extension. PyInstaller accepts
// .ico for embedding regardless of platform.
func ValidateAppIcon(path string) error {
	if !strings.HasSuffix(filepath.Base(path), ".ico") {
		return errors.New("app icon needs to be a .ico file")
	}
	return nil
}

// ExitCode defines the CLI exit codes for failures speedpack detects itself.
// External-tool failures do not use these: their own exit codes are
// propagated to the OS unchanged.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates invalid or unresolvable configuration
	// (missing wheel, wrong icon format, unparseable pyproject.toml).
	ExitConfigError ExitCode = 2

	// ExitUnsupportedPlatform indicates no installer generator exists for
	// the current operating system.
	ExitUnsupportedPlatform ExitCode = 3

	// ExitVenvInvalid indicates a reused --venv-path does not contain a
	// usable interpreter.
	ExitVenvInvalid ExitCode = 4

	// ExitFrozenNotFound indicates the freezing tool finished but the
	// frozen application tree could not be located.
	ExitFrozenNotFound ExitCode = 5

	// ExitArtifactNotFound indicates the installer tool finished but no
	// installer artifact was found under the dist directory.
	ExitArtifactNotFound ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// WrapToolError wraps a failed external-tool invocation. The tool's captured
// output becomes part of the message, and if the error is an exec.ExitError
// the tool's own exit code is carried through so the process exits with it
// unchanged. Failures to even start the tool (binary not found) fall back to
// ExitGeneralError.
func WrapToolError(tool string, err error, output string) *CLIError {
	code := ExitGeneralError
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		code = ExitCode(exitErr.ExitCode())
	}

	msg := fmt.Sprintf("%s failed", tool)
	if out := strings.TrimSpace(output); out != "" {
		msg = fmt.Sprintf("%s failed: %s", tool, out)
	}
	return &CLIError{Code: code, Message: msg, Err: err}
}
