package cpack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/uiuclibrary/speedpack/internal/model"
	"github.com/uiuclibrary/speedpack/internal/pep440"
	"github.com/uiuclibrary/speedpack/internal/wheel"
)

// Params carries everything the generators need to emit a CPack
// configuration for one frozen application.
type Params struct {
	// AppName is the installer-facing package name.
	AppName string

	// FrozenAppPath is the directory containing the frozen application
	// tree produced by the freezing step.
	FrozenAppPath string

	// OutputPath is the dist directory. The CPackConfig.cmake, license,
	// and description files are written here and referenced by absolute
	// path from the config.
	OutputPath string

	// Metadata is the wheel's distribution metadata (version, summary,
	// author, license text).
	Metadata wheel.Metadata

	// Vendor is the CPACK_PACKAGE_VENDOR value. When empty, the author
	// from the wheel metadata is used.
	Vendor string

	// LicenseFile is the already-resolved license file, or "" to let the
	// generator's own strategies find or synthesize one.
	LicenseFile string

	// InstallerIcon is the icon referenced by the Windows installer.
	InstallerIcon string

	// WixVariables holds CPACK_WIX_* overrides from pyproject.toml.
	WixVariables map[string]string
}

// Generator emits the platform-specific parts of a CPack configuration.
type Generator interface {
	// GeneratorName is the CPACK_GENERATOR value (e.g. "WIX").
	GeneratorName() string

	// SystemName is the CPACK_SYSTEM_NAME value.
	SystemName() (string, error)

	// PackageFileName computes CPACK_PACKAGE_FILE_NAME, encoding
	// pre-release and dev-release markers into the artifact name.
	PackageFileName(v pep440.Version) string

	// SpecificLines are generator-specific set() lines appended after the
	// general section.
	SpecificLines(p Params) (string, error)

	// ResolveLicense finds or synthesizes the license file the installer
	// shows, returning its absolute path.
	ResolveLicense(p Params) (string, error)

	// ArtifactExt is the file extension of the produced installer
	// artifact, including the dot (".msi", ".dmg").
	ArtifactExt() string
}

// ForPlatform returns the installer generator for the given GOOS, or an
// ExitUnsupportedPlatform error when the platform has no installer
// toolchain.
func ForPlatform(goos string) (Generator, error) {
	switch goos {
	case "windows":
		return &WindowsGenerator{}, nil
	case "darwin":
		return &MacGenerator{}, nil
	default:
		return nil, model.NewCLIError(
			model.ExitUnsupportedPlatform,
			fmt.Sprintf("unsupported platform: %s", goos),
		)
	}
}

// generalTemplate renders the generator-independent CPack variables.
var generalTemplate = template.Must(template.New("cpack").Parse(`
set(CPACK_GENERATOR "{{.Generator}}")
set(CPACK_PACKAGE_NAME "{{.PackageName}}")
set(CPACK_INSTALLED_DIRECTORIES "{{.InstalledDirSource}}" "{{.InstalledDirOutput}}")
set(CPACK_PACKAGE_VENDOR "{{.Vendor}}")
set(CPACK_SYSTEM_NAME "{{.SystemName}}")
set(CPACK_PACKAGE_VERSION "{{.Version}}")
set(CPACK_PACKAGE_VERSION_MAJOR "{{.VersionMajor}}")
set(CPACK_PACKAGE_VERSION_MINOR "{{.VersionMinor}}")
set(CPACK_PACKAGE_VERSION_PATCH "{{.VersionPatch}}")
set(CPACK_PACKAGE_FILE_NAME "{{.PackageFileName}}")
set(CPACK_RESOURCE_FILE_LICENSE "{{.LicenseFile}}")
set(CPACK_PACKAGE_DESCRIPTION_FILE "{{.DescriptionFile}}")
set(CPACK_PACKAGE_INSTALL_DIRECTORY "{{.InstallDirectory}}")
set(CPACK_PACKAGE_EXECUTABLES "speedwagon" "{{.AppName}}")
`))

// generalSection renders the shared CPack variables for a generator.
//
// Side effects: writes the package description file and, when no license
// was resolved yet, the license file into p.OutputPath — both are
// referenced from the config by absolute path.
func generalSection(gen Generator, p Params) (string, error) {
	version, err := pep440.Parse(p.Metadata.Version)
	if err != nil {
		return "", model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("wheel %s has an unusable version", p.Metadata.Name),
			err,
		)
	}

	systemName, err := gen.SystemName()
	if err != nil {
		return "", err
	}

	licensePath := p.LicenseFile
	if licensePath == "" {
		licensePath, err = gen.ResolveLicense(p)
		if err != nil {
			return "", err
		}
	}
	licensePath, err = filepath.Abs(licensePath)
	if err != nil {
		return "", err
	}

	descriptionFile, err := writeDescriptionFile(p.Metadata, p.OutputPath)
	if err != nil {
		return "", err
	}

	vendor := p.Vendor
	if vendor == "" {
		vendor = p.Metadata.Author()
	}

	frozenAbs, err := filepath.Abs(p.FrozenAppPath)
	if err != nil {
		return "", err
	}

	data := struct {
		Generator          string
		PackageName        string
		InstalledDirSource string
		InstalledDirOutput string
		Vendor             string
		SystemName         string
		Version            string
		VersionMajor       int
		VersionMinor       int
		VersionPatch       int
		PackageFileName    string
		LicenseFile        string
		DescriptionFile    string
		InstallDirectory   string
		AppName            string
	}{
		Generator:          gen.GeneratorName(),
		PackageName:        p.AppName,
		InstalledDirSource: filepath.ToSlash(frozenAbs),
		InstalledDirOutput: "/" + filepath.Base(p.FrozenAppPath),
		Vendor:             vendor,
		SystemName:         systemName,
		Version:            version.Base(),
		VersionMajor:       version.Major,
		VersionMinor:       version.Minor,
		VersionPatch:       version.Micro,
		PackageFileName:    gen.PackageFileName(version),
		LicenseFile:        filepath.ToSlash(licensePath),
		DescriptionFile:    filepath.ToSlash(descriptionFile),
		InstallDirectory:   "Speedwagon - UIUC",
		AppName:            p.AppName,
	}

	var sb strings.Builder
	if err := generalTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render CPack config: %w", err)
	}
	return sb.String(), nil
}

// writeDescriptionFile writes the wheel's summary into a description file
// under outputPath and returns its absolute path.
func writeDescriptionFile(meta wheel.Metadata, outputPath string) (string, error) {
	descriptionFile := filepath.Join(outputPath, "package_description_file.txt")
	if err := os.WriteFile(descriptionFile, []byte(meta.Summary), 0o644); err != nil {
		return "", fmt.Errorf("failed to write description file: %w", err)
	}
	return filepath.Abs(descriptionFile)
}

// GenerateConfig renders the complete CPackConfig.cmake contents for a
// generator: general section followed by the generator-specific lines.
func GenerateConfig(gen Generator, p Params) (string, error) {
	general, err := generalSection(gen, p)
	if err != nil {
		return "", err
	}
	specific, err := gen.SpecificLines(p)
	if err != nil {
		return "", err
	}
	return general + "\n" + specific, nil
}

// WriteConfig renders the configuration and writes it to
// <OutputPath>/CPackConfig.cmake, creating the output directory first.
// Returns the config file path.
func WriteConfig(gen Generator, p Params) (string, error) {
	if err := os.MkdirAll(p.OutputPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", p.OutputPath, err)
	}

	content, err := GenerateConfig(gen, p)
	if err != nil {
		return "", err
	}

	configFile := filepath.Join(p.OutputPath, "CPackConfig.cmake")
	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", configFile, err)
	}
	return configFile, nil
}
