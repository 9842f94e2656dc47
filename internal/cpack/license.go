package cpack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// placeholderLicenseText is written when no license source exists at all.
// The installer toolchains require a license file to be present.
const placeholderLicenseText = "No License given"

// licenseStrategy attempts to produce a license file. It returns the file
// path on success, "" when the strategy does not apply, or an error when
// the attempt itself failed.
type licenseStrategy func() (string, error)

// resolveLicense runs strategies in order and returns the first produced
// path. Mirrors the ordered-strategy chain of the original toolchain:
// explicit file > wheel metadata > working-directory LICENSE > generated
// placeholder (callers compose the applicable subset).
func resolveLicense(strategies ...licenseStrategy) (string, error) {
	for _, strategy := range strategies {
		path, err := strategy()
		if err != nil {
			return "", err
		}
		if path != "" {
			return path, nil
		}
	}
	return "", errors.New("unable to find license file")
}

// locateLicenseFile searches the given directories for a file named
// LICENSE and returns its absolute path, or "" when none exists.
func locateLicenseFile(searchPaths []string) licenseStrategy {
	return func() (string, error) {
		for _, dir := range searchPaths {
			candidate := filepath.Join(dir, "LICENSE")
			if _, err := os.Stat(candidate); err == nil {
				return filepath.Abs(candidate)
			}
		}
		return "", nil
	}
}

// copyLicenseFile copies source to target. Skipped (returns "") when the
// source does not exist.
func copyLicenseFile(source, target string) licenseStrategy {
	return func() (string, error) {
		data, err := os.ReadFile(source)
		if err != nil {
			if os.IsNotExist(err) {
				return "", nil
			}
			return "", fmt.Errorf("failed to read license file %s: %w", source, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write license file %s: %w", target, err)
		}
		return filepath.Abs(target)
	}
}

// generatePlaceholderLicense writes the placeholder license text to target.
// Always succeeds, so it terminates every strategy chain.
func generatePlaceholderLicense(target string) licenseStrategy {
	return func() (string, error) {
		if err := os.WriteFile(target, []byte(placeholderLicenseText), 0o644); err != nil {
			return "", fmt.Errorf("failed to write license file %s: %w", target, err)
		}
		return filepath.Abs(target)
	}
}

// ExtractWheelLicense writes the license text carried in wheel metadata to
// <buildPath>/license.txt and returns its path, or "" when the wheel has
// no license header. Used by the build command ahead of the generator's
// own fallback strategies.
func ExtractWheelLicense(licenseText, buildPath string) (string, error) {
	if licenseText == "" {
		return "", nil
	}
	target := filepath.Join(buildPath, "license.txt")
	if err := os.WriteFile(target, []byte(licenseText), 0o644); err != nil {
		return "", fmt.Errorf("failed to write extracted license %s: %w", target, err)
	}
	return target, nil
}
