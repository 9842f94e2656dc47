// Package cli — venv.go implements the "speedpack venv" command.
//
// The venv command provisions the tooling virtual environment without
// running a build, so CI pipelines can warm and cache it as a separate
// step before the (much longer) build job.
package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/uiuclibrary/speedpack/internal/config"
	"github.com/uiuclibrary/speedpack/internal/model"
	"github.com/uiuclibrary/speedpack/internal/venv"
)

// NewVenvCommand creates the "venv" cobra command, which provisions the
// tooling virtual environment without running a build. CI pipelines use it
// to warm the environment in a separate, cacheable step.
func NewVenvCommand() *cobra.Command {
	var (
		basePython string
		venvPath   string
	)

	cmd := &cobra.Command{
		Use:   "venv",
		Short: "Provision the tooling virtual environment",
		Long: `Create the Python virtual environment that holds the packaging toolset
(PyInstaller and the cmake package that provides cpack).

The command is idempotent: an existing, usable environment is reused
untouched. A path that exists but is not a virtual environment is an
error.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			// The toolset pin and extra index URL honor the same
			// environment variables as the build command.
			cfg, err := resolveVenvConfig()
			if err != nil {
				return err
			}

			provisioner := venv.NewProvisioner(
				pickFlag(basePython, cfg.BasePython),
				config.ToolsetRequirements(cfg),
			)
			provisioner.PipExtraIndexURL = cfg.PipExtraIndexURL

			path := pickFlag(venvPath, cfg.VenvPath)
			if err := provisioner.Ensure(cmd.Context(), path); err != nil {
				return err
			}

			printVenvResult(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&basePython, "base-python-path", "", "Python interpreter used to create the virtual environment")
	cmd.Flags().StringVar(&venvPath, "venv-path", "", fmt.Sprintf("Tooling virtual environment path (default: %s)", config.DefaultVenvPath))

	return cmd
}

// resolveVenvConfig builds the subset of the configuration the venv
// command needs. Config resolution requires a wheel path, which this
// command does not take, so the environment-derived values are read
// directly.
func resolveVenvConfig() (*model.BuildConfig, error) {
	return &model.BuildConfig{
		BasePython:       config.DefaultBasePython(runtime.GOOS),
		VenvPath:         config.EnvOrDefault("SPEEDPACK_VENV_PATH", config.DefaultVenvPath),
		PyInstallerPin:   config.EnvOrDefault("SPEEDPACK_PYINSTALLER_PIN", config.DefaultPyInstallerPin),
		PipExtraIndexURL: config.EnvOrDefault("PIP_EXTRA_INDEX_URL", ""),
	}, nil
}

// pickFlag returns the flag value when provided, the fallback otherwise.
func pickFlag(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

// printVenvResult outputs the provisioned environment path in text or
// JSON format.
func printVenvResult(path string) {
	if IsJSONOutput() {
		result := struct {
			VenvPath string `json:"venvPath"`
		}{VenvPath: path}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Printf("Virtual environment ready at %s\n", path)
}
