package cpack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/uiuclibrary/speedpack/internal/model"
)

// locateStrategy attempts to find a cpack binary, returning its path or an
// error when the strategy found nothing.
type locateStrategy func() (string, error)

// locateOnPath finds cpack on the process PATH.
func locateOnPath() (string, error) {
	path, err := exec.LookPath("cpack")
	if err != nil {
		return "", errors.New("cpack command not found in the $PATH")
	}
	return path, nil
}

// locateInVenv finds the cpack binary the cmake pip package installs into
// the tooling venv's scripts directory.
func locateInVenv(scriptsDir string) locateStrategy {
	return func() (string, error) {
		name := "cpack"
		if strings.HasSuffix(strings.ToLower(scriptsDir), "scripts") {
			name = "cpack.exe"
		}
		candidate := filepath.Join(scriptsDir, name)
		if _, err := os.Stat(candidate); err != nil {
			return "", fmt.Errorf("cpack command not found in %s", scriptsDir)
		}
		return candidate, nil
	}
}

// LocateCPack finds a usable cpack binary: first on PATH, then inside the
// tooling venv. Exhausting both strategies is a configuration error.
func LocateCPack(venvScriptsDir string) (string, error) {
	strategies := []locateStrategy{
		locateOnPath,
		locateInVenv(venvScriptsDir),
	}
	for _, strategy := range strategies {
		path, err := strategy()
		if err != nil {
			log.Debug("cpack locate strategy failed", "err", err)
			continue
		}
		return path, nil
	}
	return "", model.NewCLIError(model.ExitConfigError, "cpack command not found")
}

// Run invokes cpack with a generated config file, writing artifacts under
// buildPath. cpack's output streams to the terminal; on failure its exit
// code is propagated unchanged.
func Run(ctx context.Context, cpackPath, configFile, buildPath string) error {
	args := []string{
		"--config", configFile,
		"-B", buildPath,
	}

	log.Debug("exec", "bin", cpackPath, "args", args)
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, cpackPath, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return model.WrapToolError("cpack", err, "")
	}
	return nil
}

// LocateArtifact finds the installer artifact with the given extension in
// dir (non-recursive; cpack writes the package at the top of -B).
func LocateArtifact(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ext) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", model.NewCLIError(
		model.ExitArtifactNotFound,
		fmt.Sprintf("no %s file in %s", ext, dir),
	)
}
