package cpack

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/uiuclibrary/speedpack/internal/pep440"
)

// MacGenerator emits DragNDrop-based CPack configuration producing a .dmg.
type MacGenerator struct{}

// GeneratorName returns the CPack generator identifier for disk images.
func (g *MacGenerator) GeneratorName() string { return "DragNDrop" }

// ArtifactExt returns the macOS installer extension.
func (g *MacGenerator) ArtifactExt() string { return ".dmg" }

// SystemName defers to CMake's own system detection on macOS.
func (g *MacGenerator) SystemName() (string, error) {
	return "${CMAKE_SYSTEM_NAME}", nil
}

// PackageFileName encodes the release type and the macOS architecture into
// the artifact name (macos-x86_64 or macos-arm64).
func (g *MacGenerator) PackageFileName(v pep440.Version) string {
	arch := "arm64"
	if runtime.GOARCH == "amd64" {
		arch = "x86_64"
	}
	system := "macos-" + arch

	if !v.IsPrerelease() {
		return fmt.Sprintf("${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}-%s", system)
	}
	if v.IsDevRelease() {
		return fmt.Sprintf("${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}.dev%d-%s", v.DevNumber, system)
	}
	return fmt.Sprintf("${CPACK_PACKAGE_NAME}-${CPACK_PACKAGE_VERSION}.%s-%s", v.PreTag(), system)
}

// ResolveLicense finds a LICENSE in the working directory or generates a
// placeholder under the output path.
func (g *MacGenerator) ResolveLicense(p Params) (string, error) {
	return resolveLicense(
		locateLicenseFile([]string{"."}),
		generatePlaceholderLicense(filepath.Join(p.OutputPath, "LICENSE")),
	)
}

// SpecificLines is empty for DragNDrop; the general section carries
// everything the dmg generator needs.
func (g *MacGenerator) SpecificLines(Params) (string, error) {
	return "", nil
}
