package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shipwaydev/shipway-cli/internal/manifest"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the pipeline definition and build manifest",
	Long: `Validates both declarative artifacts against their JSON Schemas and
semantic rules: the pipeline definition (shipway.yaml) and the build manifest
it references. This catches malformed configuration before a run is triggered.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	root, err := findWorkspaceRoot()
	if err != nil {
		return err
	}

	fmt.Printf("🔍 Validating %s...\n", pipeline.DefinitionFileName)
	def, err := pipeline.Load(root)
	if err != nil {
		return err
	}

	fmt.Printf("🔍 Validating %s...\n", def.Build.Manifest)
	m, err := manifest.LoadFrom(filepath.Join(root, def.Build.Manifest))
	if err != nil {
		return err
	}

	fmt.Println(ui.Success(fmt.Sprintf("Pipeline for %s (process %q, trigger branch %q) is valid",
		def.App.Name, def.App.Process, def.Trigger.Branch)))
	fmt.Println(ui.Success(fmt.Sprintf("Build manifest for image %q (runtime user %q) is valid",
		m.Image, m.User.Name)))
	return nil
}
