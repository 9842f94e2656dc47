package freeze

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/uiuclibrary/speedpack/internal/model"
)

// SearchStrategy locates the frozen application tree under searchPath.
// It returns the directory path, or "" when nothing matched.
type SearchStrategy func(searchPath string, cfg *model.BuildConfig) (string, error)

// FindFrozenWindows is the Windows search strategy: walk searchPath for a
// directory named after the collection that contains the application
// executable (<AppExecutableName>.exe).
func FindFrozenWindows(searchPath string, cfg *model.BuildConfig) (string, error) {
	var found string
	exeName := cfg.AppExecutableName + ".exe"

	err := filepath.WalkDir(searchPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || d.Name() != cfg.CollectionName {
			return nil
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if entry.Name() == exeName {
				found = path
				return fs.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return found, nil
}

// FindFrozenMac is the macOS search strategy: walk searchPath for the
// "<AppName>.app" bundle directory.
func FindFrozenMac(searchPath string, cfg *model.BuildConfig) (string, error) {
	var found string
	bundleName := cfg.AppName + ".app"

	err := filepath.WalkDir(searchPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == bundleName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return found, nil
}

// platformStrategies keys the default search strategy by GOOS.
var platformStrategies = map[string]SearchStrategy{
	"windows": FindFrozenWindows,
	"darwin":  FindFrozenMac,
}

// FindFrozenFolder locates the directory containing the frozen application
// under searchPath. When strategy is nil the platform default is used;
// tests inject explicit strategies to stay platform-independent.
//
// Returns ExitFrozenNotFound when the search completes without a match,
// and ExitUnsupportedPlatform when no default strategy exists for the
// current OS.
func FindFrozenFolder(searchPath string, cfg *model.BuildConfig, strategy SearchStrategy) (string, error) {
	if strategy == nil {
		var ok bool
		strategy, ok = platformStrategies[runtime.GOOS]
		if !ok {
			return "", model.NewCLIError(
				model.ExitUnsupportedPlatform,
				fmt.Sprintf("unsupported platform: %s", runtime.GOOS),
			)
		}
	}

	found, err := strategy(searchPath, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to search %s for frozen application: %w", searchPath, err)
	}
	if found == "" {
		return "", model.NewCLIError(
			model.ExitFrozenNotFound,
			fmt.Sprintf("unable to find folder containing frozen application under %s", searchPath),
		)
	}
	return strings.TrimSuffix(found, string(os.PathSeparator)), nil
}
