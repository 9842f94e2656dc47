package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiuclibrary/speedpack/internal/model"
)

// writeTempWheel creates an empty file with a .whl name so wheel-path
// validation passes.
func writeTempWheel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speedwagon-0.4.0-py3-none-any.whl")
	require.NoError(t, os.WriteFile(path, []byte("zip"), 0o644))
	return path
}

// TestResolve_Defaults verifies the built-in defaults applied when only
// the wheel is provided.
func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(Flags{WheelPath: writeTempWheel(t)}, "linux")
	require.NoError(t, err)

	assert.Equal(t, DefaultBuildPath, cfg.BuildPath)
	assert.Equal(t, DefaultDistPath, cfg.DistPath)
	assert.Equal(t, DefaultVenvPath, cfg.VenvPath)
	assert.Equal(t, DefaultAppName, cfg.AppName)
	assert.Equal(t, DefaultExecutableName, cfg.AppExecutableName)
	assert.Equal(t, DefaultCollectionName, cfg.CollectionName)
	assert.Equal(t, DefaultPackageVendor, cfg.PackageVendor)
	assert.Equal(t, DefaultPyInstallerPin, cfg.PyInstallerPin)
	assert.NotEmpty(t, cfg.BasePython)
	assert.False(t, cfg.ForceRebuild)
}

// TestResolve_FlagsWinOverDefaults verifies flag precedence.
func TestResolve_FlagsWinOverDefaults(t *testing.T) {
	cfg, err := Resolve(Flags{
		WheelPath:         writeTempWheel(t),
		BuildPath:         "custom/build",
		DistPath:          "custom/dist",
		AppName:           "CustomApp",
		AppExecutableName: "customapp",
		ForceRebuild:      true,
	}, "linux")
	require.NoError(t, err)

	assert.Equal(t, "custom/build", cfg.BuildPath)
	assert.Equal(t, "custom/dist", cfg.DistPath)
	assert.Equal(t, "CustomApp", cfg.AppName)
	assert.Equal(t, "customapp", cfg.AppExecutableName)
	assert.True(t, cfg.ForceRebuild)
}

// TestResolve_EnvironmentOverrides verifies SPEEDPACK_* environment
// variables override defaults but not flags.
func TestResolve_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SPEEDPACK_BUILD_PATH", "env/build")
	t.Setenv("SPEEDPACK_APP_NAME", "EnvApp")
	t.Setenv("SPEEDPACK_BASE_PYTHON_PATH", "/opt/python/bin/python3")
	t.Setenv("PIP_EXTRA_INDEX_URL", "https://mirror.example.org/simple")

	cfg, err := Resolve(Flags{WheelPath: writeTempWheel(t), AppName: "FlagApp"}, "linux")
	require.NoError(t, err)

	assert.Equal(t, "env/build", cfg.BuildPath)
	assert.Equal(t, "FlagApp", cfg.AppName)
	assert.Equal(t, "/opt/python/bin/python3", cfg.BasePython)
	assert.Equal(t, "https://mirror.example.org/simple", cfg.PipExtraIndexURL)
}

// TestResolve_InvalidWheel verifies a missing or misnamed wheel is a
// configuration error.
func TestResolve_InvalidWheel(t *testing.T) {
	_, err := Resolve(Flags{WheelPath: "missing.whl"}, "linux")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestResolve_ValidatesExplicitIcons verifies that icon validation only
// runs for explicitly provided paths; defaulted paths are trusted.
func TestResolve_ValidatesExplicitIcons(t *testing.T) {
	wheelPath := writeTempWheel(t)

	icoFile := filepath.Join(t.TempDir(), "favicon.ico")
	require.NoError(t, os.WriteFile(icoFile, []byte{0, 0, 1, 0}, 0o644))

	// An .ico installer icon is wrong for darwin.
	_, err := Resolve(Flags{WheelPath: wheelPath, InstallerIcon: icoFile}, "darwin")
	assert.Error(t, err)

	// The same icon is fine for windows.
	cfg, err := Resolve(Flags{WheelPath: wheelPath, InstallerIcon: icoFile}, "windows")
	require.NoError(t, err)
	assert.Equal(t, icoFile, cfg.InstallerIcon)

	// Defaulted icon paths are not checked for existence.
	cfg, err = Resolve(Flags{WheelPath: wheelPath}, "darwin")
	require.NoError(t, err)
	assert.True(t, filepath.Base(cfg.InstallerIcon) == "favicon.icns")
}

// TestResolve_ReadsWixVariables verifies the pyproject.toml CPack
// overrides.
func TestResolve_ReadsWixVariables(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
[project]
name = "speedwagon"

[tool.windows_standalone_packager.cpack_config_variables]
CPACK_WIX_UPGRADE_GUID = "a3f1-upgrade-guid"
CPACK_WIX_PROPERTY_ARPHELPLINK = "https://example.org/help"
`), 0o644))

	cfg, err := Resolve(Flags{WheelPath: writeTempWheel(t), ConfigFile: configFile}, "windows")
	require.NoError(t, err)

	assert.Equal(t, configFile, cfg.ConfigFile)
	assert.Equal(t, "a3f1-upgrade-guid", cfg.WixConfigVariables["CPACK_WIX_UPGRADE_GUID"])
	assert.Equal(t, "https://example.org/help", cfg.WixConfigVariables["CPACK_WIX_PROPERTY_ARPHELPLINK"])
}

// TestResolve_BadConfigFile verifies configuration errors for a missing
// or unparseable config file.
func TestResolve_BadConfigFile(t *testing.T) {
	wheelPath := writeTempWheel(t)

	_, err := Resolve(Flags{WheelPath: wheelPath, ConfigFile: filepath.Join(t.TempDir(), "missing.toml")}, "windows")
	assert.Error(t, err)

	badFile := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(badFile, []byte("not [ valid toml ="), 0o644))
	_, err = Resolve(Flags{WheelPath: wheelPath, ConfigFile: badFile}, "windows")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestReadWixVariables_NoToolTable verifies that a pyproject.toml without
// the tool table yields no overrides rather than an error.
func TestReadWixVariables_NoToolTable(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[project]\nname = \"speedwagon\"\n"), 0o644))

	vars, err := readWixVariables(configFile)
	require.NoError(t, err)
	assert.Empty(t, vars)
}

// TestEnvOrDefault verifies the environment fallback helper.
func TestEnvOrDefault(t *testing.T) {
	t.Setenv("SPEEDPACK_TEST_VALUE", "from-env")
	assert.Equal(t, "from-env", EnvOrDefault("SPEEDPACK_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", EnvOrDefault("SPEEDPACK_TEST_UNSET", "fallback"))
}

// TestToolsetRequirements verifies the tooling venv requirement list.
func TestToolsetRequirements(t *testing.T) {
	cfg := &model.BuildConfig{PyInstallerPin: "PyInstaller==6.10.0"}
	assert.Equal(t, []string{"PyInstaller==6.10.0", "cmake"}, ToolsetRequirements(cfg))
}
