// Package cli — inspect.go implements the "speedpack inspect" command.
//
// The inspect command reads a wheel's distribution metadata without
// building anything, as a text block or JSON object depending on the
// --json flag.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uiuclibrary/speedpack/internal/model"
	"github.com/uiuclibrary/speedpack/internal/pep440"
	"github.com/uiuclibrary/speedpack/internal/wheel"
)

// NewInspectCommand creates the "inspect" cobra command, which reads a
// wheel's distribution metadata without building anything. Useful for
// checking what a build of that wheel would produce.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <wheel-file>",
		Short: "Show the distribution metadata of a wheel",
		Long: `Read a wheel file and print its distribution metadata: name, version,
summary, author, and the top-level import package.

The version is parsed the same way the build command parses it, so a
wheel that fails here would also fail to build.`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

func runInspect(wheelPath string) error {
	if err := model.ValidateWheelPath(wheelPath); err != nil {
		return model.WrapCLIError(model.ExitConfigError, "invalid wheel", err)
	}

	meta, err := wheel.ReadMetadata(wheelPath)
	if err != nil {
		return err
	}
	topLevel, err := wheel.TopLevel(wheelPath)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigError, "failed to read wheel top-level package", err)
	}

	version, err := pep440.Parse(meta.Version)
	if err != nil {
		return model.WrapCLIError(
			model.ExitConfigError,
			fmt.Sprintf("wheel %s has an unusable version", meta.Name),
			err,
		)
	}

	if IsJSONOutput() {
		result := struct {
			Name       string `json:"name"`
			Version    string `json:"version"`
			Base       string `json:"baseVersion"`
			Prerelease bool   `json:"prerelease"`
			Summary    string `json:"summary,omitempty"`
			Author     string `json:"author,omitempty"`
			TopLevel   string `json:"topLevel"`
		}{
			Name:       meta.Name,
			Version:    meta.Version,
			Base:       version.Base(),
			Prerelease: version.IsPrerelease(),
			Summary:    meta.Summary,
			Author:     meta.Author(),
			TopLevel:   topLevel,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Name:       %s\n", meta.Name)
	fmt.Printf("Version:    %s (base %s)\n", meta.Version, version.Base())
	if version.IsPrerelease() {
		fmt.Println("Prerelease: yes")
	}
	if meta.Summary != "" {
		fmt.Printf("Summary:    %s\n", meta.Summary)
	}
	if author := meta.Author(); author != "" {
		fmt.Printf("Author:     %s\n", author)
	}
	fmt.Printf("Top-level:  %s\n", topLevel)
	return nil
}
