package cpack

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveLicense_StrategyOrder verifies the first producing strategy
// wins and later ones never run.
func TestResolveLicense_StrategyOrder(t *testing.T) {
	var secondRan bool

	path, err := resolveLicense(
		func() (string, error) { return "first.txt", nil },
		func() (string, error) { secondRan = true; return "second.txt", nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "first.txt", path)
	assert.False(t, secondRan)
}

// TestResolveLicense_SkipsNonApplicable verifies that a strategy returning
// "" passes control to the next one.
func TestResolveLicense_SkipsNonApplicable(t *testing.T) {
	path, err := resolveLicense(
		func() (string, error) { return "", nil },
		func() (string, error) { return "fallback.txt", nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "fallback.txt", path)
}

// TestResolveLicense_PropagatesError verifies that a failing strategy
// aborts the chain.
func TestResolveLicense_PropagatesError(t *testing.T) {
	boom := errors.New("read failed")
	_, err := resolveLicense(
		func() (string, error) { return "", boom },
		func() (string, error) { return "never.txt", nil },
	)
	assert.ErrorIs(t, err, boom)
}

// TestResolveLicense_Exhausted verifies the error when no strategy
// produces a file.
func TestResolveLicense_Exhausted(t *testing.T) {
	_, err := resolveLicense(func() (string, error) { return "", nil })
	assert.Error(t, err)
}

// TestCopyLicenseFile verifies the copy strategy and its skip behavior
// when the source does not exist.
func TestCopyLicenseFile(t *testing.T) {
	dir := t.TempDir()

	source := filepath.Join(dir, "LICENSE")
	require.NoError(t, os.WriteFile(source, []byte("license text"), 0o644))
	target := filepath.Join(dir, "LICENSE.txt")

	path, err := copyLicenseFile(source, target)()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "license text", string(content))

	// Missing source: skip, not fail.
	path, err = copyLicenseFile(filepath.Join(dir, "missing"), target)()
	require.NoError(t, err)
	assert.Empty(t, path)
}

// TestLocateLicenseFile verifies the search over candidate directories.
func TestLocateLicenseFile(t *testing.T) {
	withLicense := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(withLicense, "LICENSE"), []byte("x"), 0o644))
	without := t.TempDir()

	path, err := locateLicenseFile([]string{without, withLicense})()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(withLicense, "LICENSE"), filepath.Clean(path))

	path, err = locateLicenseFile([]string{without})()
	require.NoError(t, err)
	assert.Empty(t, path)
}

// TestExtractWheelLicense verifies writing the metadata-embedded license
// text, and the empty result for wheels without one.
func TestExtractWheelLicense(t *testing.T) {
	buildPath := t.TempDir()

	path, err := ExtractWheelLicense("Copyright (c) 2022", buildPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(buildPath, "license.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Copyright (c) 2022", string(content))

	path, err = ExtractWheelLicense("", buildPath)
	require.NoError(t, err)
	assert.Empty(t, path)
}
