package freeze

import (
	"fmt"
	"os"
	"path/filepath"
)

// hookTemplate is the PyInstaller hook generated for the installed wheel.
// collect_all pulls in the package's code, data files, and binaries;
// copy_metadata preserves the dist-info so importlib.metadata works inside
// the frozen application.
const hookTemplate = `# Generated by speedpack
from PyInstaller.utils.hooks import copy_metadata, collect_all
datas, binaries, hiddenimports = collect_all('%[1]s')
datas += copy_metadata('%[1]s', recursive=True)
`

// WriteWheelHook writes hook-<packageName>.py into dir, creating dir if
// needed. PyInstaller discovers the hook through the spec's hookspath.
func WriteWheelHook(dir, packageName string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create hooks directory %s: %w", dir, err)
	}

	hookFile := filepath.Join(dir, fmt.Sprintf("hook-%s.py", packageName))
	content := fmt.Sprintf(hookTemplate, packageName)
	if err := os.WriteFile(hookFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write hook file %s: %w", hookFile, err)
	}
	return nil
}
