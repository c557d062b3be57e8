package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipwaydev/shipway-cli/internal/image"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/registry"
	"github.com/shipwaydev/shipway-cli/internal/ui"
)

var publishImage string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Authenticate to the registry and push the built image",
	Long: `Log in to the container registry with the API key from the environment
and push the image built for the current commit.

Examples:
  shipway publish                       # Push the image for HEAD
  shipway publish --image host/app/worker:abc1234`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVar(&publishImage, "image", "", "Override the image reference to push")
}

func runPublish(cmd *cobra.Command, args []string) error {
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

	ref := publishImage
	if ref == "" {
		ref = registry.Reference(def.Registry.Host, def.App.Name, def.App.Process, image.Tag(root))
	}

	client := registry.NewClient(exec, rootVerbose)
	if err := client.Login(ctx, def); err != nil {
		return fmt.Errorf("❌ Registry login failed: %w", err)
	}
	if err := client.Push(ctx, ref); err != nil {
		return fmt.Errorf("❌ Push failed: %w", err)
	}

	fmt.Println(ui.Success("Pushed " + ref))
	return nil
}
