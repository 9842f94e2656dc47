// Package cli — build.go implements the "speedpack build" command.
//
// The build command is the primary user-facing operation. It runs the full
// packaging pipeline against a wheel file, strictly sequentially:
//
//  1. Resolve the build configuration (flags, environment, pyproject.toml)
//  2. Select the installer generator for the current platform
//  3. Provision (or reuse) the tooling virtual environment
//  4. Install the wheel and requirement files into the package environment
//     (skipped when a valid environment exists and --force-rebuild is off)
//  5. Generate the PyInstaller hook and spec file, then freeze
//  6. Locate the frozen tree, write the CPack config, and run cpack
//  7. Report the produced installer artifact
//
// Every stage is fail-fast: the first failing external tool aborts the run
// and its exit code becomes the process exit code.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/uiuclibrary/speedpack/internal/config"
	"github.com/uiuclibrary/speedpack/internal/cpack"
	"github.com/uiuclibrary/speedpack/internal/freeze"
	"github.com/uiuclibrary/speedpack/internal/model"
	"github.com/uiuclibrary/speedpack/internal/venv"
	"github.com/uiuclibrary/speedpack/internal/wheel"
)

// NewBuildCommand creates the "build" cobra command.
func NewBuildCommand() *cobra.Command {
	flags := &config.Flags{}

	cmd := &cobra.Command{
		Use:   "build <wheel-file>",
		Short: "Freeze a wheel and wrap it into a platform installer",
		Long: `Build a standalone application bundle and installer from a Python wheel.

The wheel (and any extra requirement files) is installed into an isolated
package environment, frozen with PyInstaller, and wrapped into a platform
installer artifact under the dist directory.

Examples:
  speedpack build dist/speedwagon-0.4.0-py3-none-any.whl
  speedpack build --force-rebuild speedwagon-0.4.0-py3-none-any.whl
  speedpack build -r requirements-gui.txt speedwagon-0.4.0-py3-none-any.whl`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			flags.WheelPath = args[0]
			return runBuild(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.ForceRebuild, "force-rebuild", false, "Force the package environment to be rebuilt")
	cmd.Flags().StringVar(&flags.BuildPath, "build-path", "", fmt.Sprintf("Path to build directory (default: %s)", config.DefaultBuildPath))
	cmd.Flags().StringVar(&flags.DistPath, "dist", "", fmt.Sprintf("Output path directory (default: %s)", config.DefaultDistPath))
	cmd.Flags().StringVar(&flags.InstallerIcon, "installer-icon", "", "Icon used by the installer (.ico on Windows, .icns on macOS)")
	cmd.Flags().StringVar(&flags.BootstrapScript, "app-bootstrap-script", "", "Python script used to launch the application")
	cmd.Flags().StringVar(&flags.AppIcon, "app-icon", "", "Application icon (.ico)")
	cmd.Flags().StringVar(&flags.AppName, "app-name", "", fmt.Sprintf("Name of application (default: %s)", config.DefaultAppName))
	cmd.Flags().StringVar(&flags.AppExecutableName, "app-executable-name", "", fmt.Sprintf("Name of application executable file (default: %s)", config.DefaultExecutableName))
	cmd.Flags().StringArrayVarP(&flags.Requirements, "requirement", "r", nil, "Install from the given requirements file; may be used multiple times")
	cmd.Flags().StringVar(&flags.LicenseFile, "license-file", "", "File used for the application's EULA")
	cmd.Flags().StringVar(&flags.ConfigFile, "config-file", "", "Installer config file (default: pyproject.toml when present)")
	cmd.Flags().StringVar(&flags.BasePython, "base-python-path", "", "Python interpreter used to create the virtual environment")
	cmd.Flags().StringVar(&flags.VenvPath, "venv-path", "", fmt.Sprintf("Tooling virtual environment path (default: %s)", config.DefaultVenvPath))

	return cmd
}

// runBuild is the main orchestration function for the build command.
func runBuild(ctx context.Context, flags *config.Flags) error {
	// Step 1: Resolve all configuration before any side effect.
	cfg, err := config.Resolve(*flags, runtime.GOOS)
	if err != nil {
		return err
	}

	// Step 2: Select the installer generator up front so unsupported
	// platforms fail before anything is written to disk.
	gen, err := cpack.ForPlatform(runtime.GOOS)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.BuildPath, 0o755); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to create build directory", err)
	}
	if err := os.MkdirAll(cfg.DistPath, 0o755); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to create dist directory", err)
	}

	// Step 3: Tooling environment (idempotent).
	provisioner := venv.NewProvisioner(cfg.BasePython, config.ToolsetRequirements(cfg))
	provisioner.PipExtraIndexURL = cfg.PipExtraIndexURL
	if err := provisioner.Ensure(ctx, cfg.VenvPath); err != nil {
		return err
	}

	// Step 4: Wheel introspection. Needed both for the package environment
	// receipt and the spec/installer generation further down.
	meta, err := wheel.ReadMetadata(cfg.WheelPath)
	if err != nil {
		return err
	}
	topLevel, err := wheel.TopLevel(cfg.WheelPath)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigError, "failed to read wheel top-level package", err)
	}
	log.Debug("wheel metadata", "name", meta.Name, "version", meta.Version, "topLevel", topLevel)

	// Step 5: Package environment (skipped when valid and not forced).
	packageEnv := cfg.PackageEnvPath()
	if venv.NeedsRebuild(packageEnv, cfg.ForceRebuild) {
		if cfg.ForceRebuild {
			if err := os.RemoveAll(packageEnv); err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "failed to remove package environment", err)
			}
		}
		if err := provisioner.InstallTarget(ctx, cfg.VenvPath, cfg.WheelPath, packageEnv, cfg.Requirements); err != nil {
			return err
		}
		receipt := venv.Receipt{
			WheelFile:      filepath.Base(cfg.WheelPath),
			PackageName:    meta.Name,
			PackageVersion: meta.Version,
			Requirements:   cfg.Requirements,
		}
		if err := venv.WriteReceipt(packageEnv, receipt); err != nil {
			// The receipt is informational only; a failed write is not
			// worth aborting a multi-minute build over.
			log.Warn("could not write build receipt", "err", err)
		}
	} else if receipt, err := venv.ReadReceipt(packageEnv); err == nil {
		log.Info("reusing package environment",
			"wheel", receipt.WheelFile, "version", receipt.PackageVersion, "builtAt", receipt.CreatedAt)
	} else {
		log.Info("reusing package environment of unknown provenance", "path", packageEnv)
	}

	// Step 6: Freeze.
	frozen, err := runFreeze(ctx, cfg, topLevel, meta.Name)
	if err != nil {
		return err
	}
	log.Debug("frozen application located", "path", frozen)

	// Step 7: Installer.
	artifact, err := runInstaller(ctx, cfg, gen, meta, frozen)
	if err != nil {
		return err
	}

	printBuildResult(cfg, artifact)
	return nil
}

// runFreeze generates the wheel hook and the spec file, invokes
// PyInstaller, and returns the path of the frozen application tree. A
// valid frozen tree from a previous run is reused unless --force-rebuild
// was passed.
func runFreeze(ctx context.Context, cfg *model.BuildConfig, topLevel, distName string) (string, error) {
	if !cfg.ForceRebuild {
		if frozen, err := freeze.FindFrozenFolder(cfg.DistPath, cfg, nil); err == nil {
			log.Info("reusing frozen application from previous run", "path", frozen)
			return frozen, nil
		}
	}

	if err := freeze.WriteWheelHook(cfg.HooksPath(), topLevel); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to write wheel hook", err)
	}

	specData, err := buildSpecData(cfg, topLevel, distName)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to resolve spec file inputs", err)
	}
	spec, err := freeze.GenerateSpec(specData)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to generate spec file", err)
	}
	specFile := cfg.SpecFilePath()
	if err := os.WriteFile(specFile, []byte(spec), 0o644); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to write spec file", err)
	}

	log.Info("freezing application", "spec", specFile, "dist", cfg.DistPath)
	if err := freeze.Run(ctx, venv.PythonPath(cfg.VenvPath), specFile, cfg.DistPath, cfg.WorkPath()); err != nil {
		return "", err
	}

	return freeze.FindFrozenFolder(cfg.DistPath, cfg, nil)
}

// buildSpecData assembles the PyInstaller spec inputs from the resolved
// configuration. All paths are made absolute; the spec executes from
// PyInstaller's own working directory.
func buildSpecData(cfg *model.BuildConfig, topLevel, distName string) (freeze.SpecData, error) {
	packageEnv, err := filepath.Abs(cfg.PackageEnvPath())
	if err != nil {
		return freeze.SpecData{}, err
	}
	appIcon, err := filepath.Abs(cfg.AppIcon)
	if err != nil {
		return freeze.SpecData{}, err
	}
	installerIcon, err := filepath.Abs(cfg.InstallerIcon)
	if err != nil {
		return freeze.SpecData{}, err
	}
	bootstrap, err := filepath.Abs(cfg.BootstrapScript)
	if err != nil {
		return freeze.SpecData{}, err
	}
	hooks, err := filepath.Abs(cfg.HooksPath())
	if err != nil {
		return freeze.SpecData{}, err
	}

	// The application ships its logo inside the installed package; bundle
	// it (and the icon) next to the frozen code.
	logo := filepath.Join(packageEnv, topLevel, "logo.png")

	bundleName := cfg.AppName
	if runtime.GOOS == "darwin" {
		bundleName += ".app"
	}

	return freeze.SpecData{
		BootstrapScript:   bootstrap,
		AppExecutableName: cfg.AppExecutableName,
		CollectionName:    cfg.CollectionName,
		BundleName:        bundleName,
		AppIcon:           appIcon,
		InstallerIcon:     installerIcon,
		DistributionName:  distName,
		HiddenImport:      topLevel,
		SearchPaths:       []string{packageEnv},
		HooksPath:         []string{hooks},
		DataFiles: []freeze.DataFile{
			{Source: appIcon, Dest: topLevel},
			{Source: logo, Dest: topLevel},
		},
	}, nil
}

// runInstaller resolves the license, writes the CPack configuration, runs
// cpack, and returns the produced installer artifact path.
func runInstaller(ctx context.Context, cfg *model.BuildConfig, gen cpack.Generator, meta wheel.Metadata, frozen string) (string, error) {
	// License resolution order: explicit flag, then license text embedded
	// in the wheel metadata; the generator's own strategies cover the rest.
	licenseFile := cfg.LicenseFile
	if licenseFile == "" {
		extracted, err := cpack.ExtractWheelLicense(meta.License, cfg.BuildPath)
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to extract wheel license", err)
		}
		if extracted != "" {
			log.Info("extracted license from wheel", "path", extracted)
			licenseFile = extracted
		}
	}
	if licenseFile == "" {
		log.Warn("no license file found")
	}

	params := cpack.Params{
		AppName:       cfg.AppName,
		FrozenAppPath: frozen,
		OutputPath:    cfg.DistPath,
		Metadata:      meta,
		Vendor:        cfg.PackageVendor,
		LicenseFile:   licenseFile,
		InstallerIcon: cfg.InstallerIcon,
		WixVariables:  cfg.WixConfigVariables,
	}

	configFile, err := cpack.WriteConfig(gen, params)
	if err != nil {
		return "", err
	}

	cpackPath, err := cpack.LocateCPack(venv.ScriptsDir(cfg.VenvPath))
	if err != nil {
		return "", err
	}

	log.Info("generating installer", "config", configFile, "generator", gen.GeneratorName())
	if err := cpack.Run(ctx, cpackPath, configFile, cfg.DistPath); err != nil {
		return "", err
	}

	return cpack.LocateArtifact(cfg.DistPath, gen.ArtifactExt())
}

// printBuildResult outputs the build result in text or JSON format.
func printBuildResult(cfg *model.BuildConfig, artifact string) {
	if IsJSONOutput() {
		result := struct {
			AppName  string `json:"appName"`
			Wheel    string `json:"wheel"`
			Artifact string `json:"artifact"`
		}{
			AppName:  cfg.AppName,
			Wheel:    cfg.WheelPath,
			Artifact: artifact,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Printf("Created %s\n", artifact)
}
