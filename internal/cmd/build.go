package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipwaydev/shipway-cli/internal/image"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/ui"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the container image from the build manifest",
	Long: `Build the container image declared by the workspace's build manifest.

The manifest is rendered into a container build file and built with a tag
derived from the current commit. The built image is verified to run as an
unprivileged user; a root-equivalent runtime user fails the build.

Verification is NOT run first: use 'shipway run' for the full gated pipeline.

Examples:
  shipway build              # Build and tag the image
  shipway build --verbose    # Show the underlying build output`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, err := findWorkspaceRoot()
	if err != nil {
		return err
	}

	def, err := pipeline.Load(root)
	if err != nil {
		return err
	}

	exec, err := newExecutor(root, def)
	if err != nil {
		return err
	}

	builder := image.NewBuilder(exec, root, rootVerbose)
	ref, err := builder.Build(ctx, def)
	if err != nil {
		return fmt.Errorf("❌ Build failed: %w", err)
	}

	fmt.Println(ui.Success("Built " + ref))
	return nil
}
