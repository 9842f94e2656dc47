package venv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/uiuclibrary/speedpack/internal/model"
)

// Provisioner creates and operates on Python virtual environments.
//
// The struct carries the invocation-wide settings that affect every pip
// call (base interpreter, extra index URL, tool pins) so the methods only
// take the paths that vary per call.
type Provisioner struct {
	// BasePython is the interpreter used to create new environments.
	BasePython string

	// PipExtraIndexURL, when non-empty, is exported to pip as
	// PIP_EXTRA_INDEX_URL for every install. Used by CI mirrors only.
	PipExtraIndexURL string

	// Toolset lists the requirements installed into a freshly created
	// tooling venv (the pinned freezing tool and the cmake package that
	// provides cpack).
	Toolset []string

	// Logger receives progress output. Defaults to log.Default().
	Logger *log.Logger
}

// NewProvisioner creates a Provisioner for the given base interpreter and
// toolset requirements.
func NewProvisioner(basePython string, toolset []string) *Provisioner {
	return &Provisioner{
		BasePython: basePython,
		Toolset:    toolset,
		Logger:     log.Default(),
	}
}

// PythonPath returns the interpreter inside a virtual environment,
// following the platform layout: Scripts\python.exe on Windows, bin/python
// elsewhere.
func PythonPath(venvPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvPath, "Scripts", "python.exe")
	}
	return filepath.Join(venvPath, "bin", "python")
}

// ScriptsDir returns the directory holding console entry points inside a
// virtual environment (Scripts on Windows, bin elsewhere). The cpack
// locator searches this directory for the cmake-provided cpack binary.
func ScriptsDir(venvPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvPath, "Scripts")
	}
	return filepath.Join(venvPath, "bin")
}

// IsValid reports whether venvPath looks like a usable virtual environment:
// the directory exists, contains a pyvenv.cfg marker, and has an
// interpreter binary in the expected location.
func IsValid(venvPath string) bool {
	if _, err := os.Stat(filepath.Join(venvPath, "pyvenv.cfg")); err != nil {
		return false
	}
	if _, err := os.Stat(PythonPath(venvPath)); err != nil {
		return false
	}
	return true
}

// Ensure makes venvPath a usable tooling environment.
//
// Three cases:
//  1. venvPath does not exist: create it from BasePython, upgrade pip,
//     and install the toolset.
//  2. venvPath exists and is valid: reuse it untouched (idempotent).
//  3. venvPath exists but is not a usable venv: fail with ExitVenvInvalid
//     rather than letting pip produce opaque diagnostics later.
//
// A creation failure at any step removes the partially built directory.
func (p *Provisioner) Ensure(ctx context.Context, venvPath string) error {
	if info, err := os.Stat(venvPath); err == nil {
		if !info.IsDir() || !IsValid(venvPath) {
			return model.NewCLIError(
				model.ExitVenvInvalid,
				fmt.Sprintf("%s exists but is not a usable virtual environment", venvPath),
			)
		}
		p.Logger.Debug("reusing existing virtual environment", "path", venvPath)
		return nil
	}

	p.Logger.Info("creating virtual environment", "path", venvPath, "python", p.BasePython)
	if err := p.create(ctx, venvPath); err != nil {
		// Remove whatever was partially written so a rerun starts clean.
		_ = os.RemoveAll(venvPath)
		return err
	}
	return nil
}

// create performs the actual provisioning steps for a fresh environment.
func (p *Provisioner) create(ctx context.Context, venvPath string) error {
	if err := p.run(ctx, p.BasePython, "-m", "venv", venvPath); err != nil {
		return err
	}

	python := PythonPath(venvPath)
	if err := p.run(ctx, python, "-m", "pip", "install", "--upgrade", "pip", "wheel", "setuptools"); err != nil {
		return err
	}

	if len(p.Toolset) > 0 {
		args := append([]string{"-m", "pip", "install"}, p.Toolset...)
		if err := p.run(ctx, python, args...); err != nil {
			return err
		}
	}
	return nil
}

// InstallTarget installs the wheel and any requirement files into targetDir
// using the venv's pip with --target, producing the package environment the
// freezing tool analyzes.
//
// The target is scaffolded as a bare (pip-less) venv first: pip --target
// lays down only the packages, and the scaffold's lib and bin (Lib and
// Scripts) directories are what NeedsRebuild looks for on the next run.
//
// On failure the target directory is removed before the error is returned;
// there is no partial-success state.
func (p *Provisioner) InstallTarget(ctx context.Context, venvPath, wheelPath, targetDir string, requirements []string) error {
	python := PythonPath(venvPath)

	if err := p.run(ctx, python, "-m", "venv", "--without-pip", targetDir); err != nil {
		_ = os.RemoveAll(targetDir)
		return err
	}

	args := []string{
		"-m", "pip",
		"install", wheelPath,
		"--upgrade",
		"--target=" + targetDir,
	}
	for _, req := range requirements {
		args = append(args, "-r", req)
	}

	p.Logger.Info("installing wheel into package environment",
		"wheel", wheelPath, "target", targetDir, "requirements", len(requirements))
	if err := p.run(ctx, python, args...); err != nil {
		_ = os.RemoveAll(targetDir)
		return err
	}
	return nil
}

// NeedsRebuild reports whether the package environment must be
// (re)created. A rebuild happens when force is set or when the environment
// is missing the directories a complete install produces (Lib and Scripts
// on Windows, lib and bin elsewhere).
func NeedsRebuild(packageEnv string, force bool) bool {
	if force {
		return true
	}
	if _, err := os.Stat(packageEnv); err != nil {
		return true
	}

	libDir, scriptsDir := "lib", "bin"
	if runtime.GOOS == "windows" {
		libDir, scriptsDir = "Lib", "Scripts"
	}
	if _, err := os.Stat(filepath.Join(packageEnv, libDir)); err != nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(packageEnv, scriptsDir)); err != nil {
		return true
	}
	return false
}

// run executes a python/pip command as a child process, capturing combined
// output. On failure the captured output is surfaced in the error and the
// child's exit code is preserved for propagation.
func (p *Provisioner) run(ctx context.Context, bin string, args ...string) error {
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, bin, args...)

	// Inherit the current process environment; pip reads proxy and cache
	// settings from it. The extra index URL is appended only when set.
	cmd.Env = os.Environ()
	if p.PipExtraIndexURL != "" {
		cmd.Env = append(cmd.Env, "PIP_EXTRA_INDEX_URL="+p.PipExtraIndexURL)
	}

	p.Logger.Debug("exec", "bin", bin, "args", strings.Join(args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return model.WrapToolError(filepath.Base(bin), err, string(output))
	}
	return nil
}
