package cpack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiuclibrary/speedpack/internal/pep440"
)

// mustParse parses a version or fails the test.
func mustParse(t *testing.T, s string) pep440.Version {
	t.Helper()
	v, err := pep440.Parse(s)
	require.NoError(t, err)
	return v
}

// TestWindowsGenerator_PackageFileName verifies the installer file name
// for final, dev, and pre-release builds.
func TestWindowsGenerator_PackageFileName(t *testing.T) {
	g := &WindowsGenerator{}

	tests := []struct {
		version  string
		expected string
	}{
		{"0.4.0", "${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}-${CPACK_SYSTEM_NAME}"},
		{"0.4.0.dev12", "${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}.dev12"},
		{"0.4.0b12", "${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}.b12-${CPACK_SYSTEM_NAME}"},
		{"0.4.0rc1", "${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}.rc1-${CPACK_SYSTEM_NAME}"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.expected, g.PackageFileName(mustParse(t, tt.version)))
		})
	}
}

// TestWindowsGenerator_SystemName verifies the win64/win32 mapping for the
// build architecture.
func TestWindowsGenerator_SystemName(t *testing.T) {
	g := &WindowsGenerator{}
	name, err := g.SystemName()
	require.NoError(t, err)
	assert.Contains(t, []string{"win64", "win32"}, name)
}

// TestWindowsGenerator_SpecificLines verifies the WiX architecture
// settings, the sorted pyproject.toml overrides, and the product icon.
func TestWindowsGenerator_SpecificLines(t *testing.T) {
	g := &WindowsGenerator{}

	icon := filepath.Join(t.TempDir(), "favicon.ico")
	require.NoError(t, os.WriteFile(icon, []byte{0, 0, 1, 0}, 0o644))

	lines, err := g.SpecificLines(Params{
		InstallerIcon: icon,
		WixVariables: map[string]string{
			"CPACK_WIX_UPGRADE_GUID": "upgrade-guid",
			"CPACK_WIX_PRODUCT_GUID": "product-guid",
			"UNRELATED_VARIABLE":     "ignored",
			"CPACK_WIX_UI_BANNER":    "banner.bmp",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, lines, "set(CPACK_WIX_SIZEOF_VOID_P")
	assert.Contains(t, lines, "set(CPACK_WIX_ARCHITECTURE")
	assert.Contains(t, lines, "set(CPACK_WIX_PRODUCT_ICON")
	assert.NotContains(t, lines, "UNRELATED_VARIABLE")

	// Overrides are emitted in sorted key order for deterministic configs.
	banner := strings.Index(lines, "CPACK_WIX_UI_BANNER")
	product := strings.Index(lines, "CPACK_WIX_PRODUCT_GUID")
	upgrade := strings.Index(lines, "CPACK_WIX_UPGRADE_GUID")
	require.True(t, banner >= 0 && product >= 0 && upgrade >= 0)
	assert.Less(t, product, banner)
	assert.Less(t, banner, upgrade)
}

// TestWindowsGenerator_ResolveLicense verifies the LICENSE.txt strategies:
// copy of an existing LICENSE, placeholder otherwise.
func TestWindowsGenerator_ResolveLicense(t *testing.T) {
	g := &WindowsGenerator{}

	t.Run("placeholder when no LICENSE exists", func(t *testing.T) {
		output := t.TempDir()

		path, err := g.ResolveLicense(Params{OutputPath: output})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, "LICENSE.txt"))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, placeholderLicenseText, string(content))
	})
}

// TestMacGenerator_PackageFileName verifies the installer file name
// carries the macos architecture suffix and the release-type markers.
func TestMacGenerator_PackageFileName(t *testing.T) {
	g := &MacGenerator{}

	final := g.PackageFileName(mustParse(t, "0.4.0"))
	assert.True(t, strings.HasPrefix(final, "${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}-macos-"))

	dev := g.PackageFileName(mustParse(t, "0.4.0.dev3"))
	assert.Contains(t, dev, ".dev3-macos-")

	pre := g.PackageFileName(mustParse(t, "0.4.0rc1"))
	assert.Contains(t, pre, ".rc1-macos-")
}

// TestMacGenerator_SystemName verifies deferral to CMake's detection.
func TestMacGenerator_SystemName(t *testing.T) {
	g := &MacGenerator{}
	name, err := g.SystemName()
	require.NoError(t, err)
	assert.Equal(t, "${CMAKE_SYSTEM_NAME}", name)
}
