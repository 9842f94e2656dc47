package freeze

import (
	"context"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/uiuclibrary/speedpack/internal/model"
)

// Run invokes PyInstaller from the tooling venv against a generated spec
// file. The frozen tree is written under distPath; workPath is scratch
// space. --noconfirm and --clean keep the run non-interactive and free of
// stale build state.
//
// PyInstaller's own output goes straight to the terminal: a freeze takes
// minutes and the progress output is the only sign of life. On failure the
// tool's exit code is propagated unchanged.
func Run(ctx context.Context, python, specFile, distPath, workPath string) error {
	args := []string{
		"-m", "PyInstaller",
		"--noconfirm",
		specFile,
		"--distpath", distPath,
		"--workpath", workPath,
		"--clean",
	}

	log.Debug("exec", "bin", python, "args", args)
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, python, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return model.WrapToolError("PyInstaller", err, "")
	}
	return nil
}
