package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/uiuclibrary/speedpack/internal/model"
)

// Defaults that match the published packaging behavior. The vendor string
// identifies the project's maintaining organization on the installer.
const (
	DefaultAppName        = "Speedwagon"
	DefaultExecutableName = "speedwagon"
	DefaultCollectionName = "Speedwagon!"
	DefaultBuildPath      = "build/packaging"
	DefaultDistPath       = "dist"
	DefaultVenvPath       = "build/standalone_venv"
	DefaultPackageVendor  = "University Library at The University of Illinois at Urbana " +
		"Champaign: Preservation Services"

	// DefaultPyInstallerPin is the pinned freezing tool installed into the
	// tooling venv. Bump deliberately; PyInstaller minor releases change
	// spec-file semantics.
	DefaultPyInstallerPin = "PyInstaller==6.10.0"
)

// Flags holds the raw command-line values for the build command. Empty
// strings mean "not provided"; Resolve fills those from environment,
// pyproject.toml, and defaults.
type Flags struct {
	WheelPath         string
	BuildPath         string
	DistPath          string
	VenvPath          string
	BasePython        string
	InstallerIcon     string
	AppIcon           string
	BootstrapScript   string
	AppName           string
	AppExecutableName string
	Requirements      []string
	LicenseFile       string
	ConfigFile        string
	ForceRebuild      bool
}

// Resolve folds flags, environment, pyproject.toml, and defaults into an
// immutable BuildConfig. goos selects platform-specific defaults and
// validation; callers pass runtime.GOOS outside of tests.
func Resolve(flags Flags, goos string) (*model.BuildConfig, error) {
	v := viper.New()

	// Built-in defaults, overridable through SPEEDPACK_* environment
	// variables (e.g. SPEEDPACK_BUILD_PATH, SPEEDPACK_APP_NAME).
	v.SetDefault("build_path", DefaultBuildPath)
	v.SetDefault("dist", DefaultDistPath)
	v.SetDefault("venv_path", DefaultVenvPath)
	v.SetDefault("app_name", DefaultAppName)
	v.SetDefault("app_executable_name", DefaultExecutableName)
	v.SetDefault("collection_name", DefaultCollectionName)
	v.SetDefault("package_vendor", DefaultPackageVendor)
	v.SetDefault("pyinstaller_pin", DefaultPyInstallerPin)
	v.SetDefault("base_python_path", DefaultBasePython(goos))
	v.SetDefault("assets_dir", defaultAssetsDir())

	v.SetEnvPrefix("SPEEDPACK")
	v.AutomaticEnv()

	// The extra package-index URL keeps its conventional pip name so CI
	// configuration works for both pip and speedpack.
	_ = v.BindEnv("pip_extra_index_url", "PIP_EXTRA_INDEX_URL", "SPEEDPACK_PIP_EXTRA_INDEX_URL")

	if err := model.ValidateWheelPath(flags.WheelPath); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "invalid wheel", err)
	}

	assetsDir := v.GetString("assets_dir")

	cfg := &model.BuildConfig{
		WheelPath:         flags.WheelPath,
		BuildPath:         pick(flags.BuildPath, v.GetString("build_path")),
		DistPath:          pick(flags.DistPath, v.GetString("dist")),
		VenvPath:          pick(flags.VenvPath, v.GetString("venv_path")),
		BasePython:        pick(flags.BasePython, v.GetString("base_python_path")),
		InstallerIcon:     pick(flags.InstallerIcon, defaultInstallerIcon(assetsDir, goos)),
		AppIcon:           pick(flags.AppIcon, filepath.Join(assetsDir, "favicon.ico")),
		BootstrapScript:   pick(flags.BootstrapScript, filepath.Join(assetsDir, "speedwagon-bootstrap.py")),
		AppName:           pick(flags.AppName, v.GetString("app_name")),
		AppExecutableName: pick(flags.AppExecutableName, v.GetString("app_executable_name")),
		CollectionName:    v.GetString("collection_name"),
		Requirements:      flags.Requirements,
		LicenseFile:       flags.LicenseFile,
		ForceRebuild:      flags.ForceRebuild,
		PackageVendor:     v.GetString("package_vendor"),
		PipExtraIndexURL:  v.GetString("pip_extra_index_url"),
		PyInstallerPin:    v.GetString("pyinstaller_pin"),
	}

	// Explicitly provided inputs are validated eagerly; defaulted ones are
	// trusted, matching the original argparse behavior where validation
	// actions only ran on values present on the command line.
	if flags.InstallerIcon != "" {
		if err := model.ValidateInstallerIcon(flags.InstallerIcon, goos); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError, "invalid installer icon", err)
		}
	}
	if flags.AppIcon != "" {
		if err := model.ValidateAppIcon(flags.AppIcon); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError, "invalid app icon", err)
		}
	}
	if flags.LicenseFile != "" {
		if _, err := os.Stat(flags.LicenseFile); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError, "invalid license file",
				fmt.Errorf("%q does not exist", flags.LicenseFile))
		}
	}

	// pyproject.toml: explicit flag wins; otherwise one in the working
	// directory is picked up automatically when present.
	configFile := flags.ConfigFile
	if configFile == "" {
		if _, err := os.Stat("pyproject.toml"); err == nil {
			configFile = "pyproject.toml"
		}
	}
	if configFile != "" {
		wixVars, err := readWixVariables(configFile)
		if err != nil {
			return nil, err
		}
		cfg.ConfigFile = configFile
		cfg.WixConfigVariables = wixVars
	}

	return cfg, nil
}

// pick returns the flag value when provided, the fallback otherwise.
func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

// DefaultBasePython finds the interpreter used to create new venvs:
// the first python3 (python on Windows) on the execution path, falling
// back to the bare name so the error comes from the exec attempt.
func DefaultBasePython(goos string) string {
	candidates := []string{"python3", "python"}
	if goos == "windows" {
		candidates = []string{"python", "py"}
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return candidates[0]
}

// defaultInstallerIcon returns the bundled installer icon for the
// platform's installer toolchain.
func defaultInstallerIcon(assetsDir, goos string) string {
	if goos == "darwin" {
		return filepath.Join(assetsDir, "favicon.icns")
	}
	return filepath.Join(assetsDir, "favicon.ico")
}

// defaultAssetsDir locates the packaging assets directory: next to the
// speedpack binary when installed, falling back to ./assets for
// run-from-checkout use.
func defaultAssetsDir() string {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "assets")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return "assets"
}

// pyprojectTOML models the slice of pyproject.toml this tool reads:
// [tool.windows_standalone_packager.cpack_config_variables].
type pyprojectTOML struct {
	Tool struct {
		WindowsStandalonePackager struct {
			CPackConfigVariables map[string]any `toml:"cpack_config_variables"`
		} `toml:"windows_standalone_packager"`
	} `toml:"tool"`
}

// readWixVariables parses a pyproject.toml and returns the CPack variable
// overrides as strings. A file that does not parse as TOML is a
// configuration error; a file without the tool table yields an empty map.
func readWixVariables(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("%q does not exist", path), err)
	}

	var parsed pyprojectTOML
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("%s does not appear to be a valid TOML file", path), err)
	}

	raw := parsed.Tool.WindowsStandalonePackager.CPackConfigVariables
	if len(raw) == 0 {
		return nil, nil
	}
	vars := make(map[string]string, len(raw))
	for k, val := range raw {
		vars[k] = fmt.Sprint(val)
	}
	return vars, nil
}

// EnvOrDefault returns the value of the named environment variable, or
// fallback when it is unset or empty. Used by commands that need a couple
// of settings without running full config resolution.
func EnvOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// ToolsetRequirements returns the pip requirements installed into a fresh
// tooling venv: the pinned freezing tool plus the cmake package, which
// ships the cpack binary used for installer generation.
func ToolsetRequirements(cfg *model.BuildConfig) []string {
	return []string{cfg.PyInstallerPin, "cmake"}
}
