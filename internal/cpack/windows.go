package cpack

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/uiuclibrary/speedpack/internal/pep440"
)

// WindowsGenerator emits WIX-based CPack configuration producing an .msi.
type WindowsGenerator struct{}

// GeneratorName returns the CPack generator identifier for WiX.
func (g *WindowsGenerator) GeneratorName() string { return "WIX" }

// ArtifactExt returns the Windows installer extension.
func (g *WindowsGenerator) ArtifactExt() string { return ".msi" }

// SystemName maps the build architecture onto the win64/win32 system name.
func (g *WindowsGenerator) SystemName() (string, error) {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return "win64", nil
	case "386", "arm":
		return "win32", nil
	default:
		return "", fmt.Errorf("unknown architecture %s", runtime.GOARCH)
	}
}

// PackageFileName encodes the release type into the installer file name.
// Final releases carry the system name; dev releases append .devN; other
// pre-releases append the pre-release tag before the system name.
func (g *WindowsGenerator) PackageFileName(v pep440.Version) string {
	if !v.IsPrerelease() {
		return "${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}-${CPACK_SYSTEM_NAME}"
	}
	if v.IsDevRelease() {
		return fmt.Sprintf("${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}.dev%d", v.DevNumber)
	}
	return fmt.Sprintf("${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}.%s-${CPACK_SYSTEM_NAME}", v.PreTag())
}

// ResolveLicense produces LICENSE.txt under the output path: a copy of the
// working directory's LICENSE when one exists, a generated placeholder
// otherwise. WiX requires the .txt extension.
func (g *WindowsGenerator) ResolveLicense(p Params) (string, error) {
	target := filepath.Join(p.OutputPath, "LICENSE.txt")
	return resolveLicense(
		copyLicenseFile("LICENSE", target),
		generatePlaceholderLicense(target),
	)
}

// SpecificLines emits the WiX architecture settings, any CPACK_WIX_*
// variables from pyproject.toml, and the installer product icon.
func (g *WindowsGenerator) SpecificLines(p Params) (string, error) {
	var arch, voidP string
	switch runtime.GOARCH {
	case "amd64", "arm64":
		arch, voidP = "x64", "8"
	case "386", "arm":
		arch, voidP = "x86", "4"
	}

	lines := []string{
		fmt.Sprintf("set(CPACK_WIX_SIZEOF_VOID_P %q)", voidP),
		fmt.Sprintf("set(CPACK_WIX_ARCHITECTURE %q)", arch),
	}

	// pyproject.toml overrides, restricted to the CPACK_WIX namespace.
	// Sorted for deterministic output.
	keys := make([]string, 0, len(p.WixVariables))
	for k := range p.WixVariables {
		if strings.HasPrefix(k, "CPACK_WIX") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("set(%s %q)", k, p.WixVariables[k]))
	}

	if p.InstallerIcon != "" {
		iconAbs, err := filepath.Abs(p.InstallerIcon)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("set(CPACK_WIX_PRODUCT_ICON %q)", filepath.ToSlash(iconAbs)))
	}

	return strings.Join(lines, "\n") + "\n", nil
}
