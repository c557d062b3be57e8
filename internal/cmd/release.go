package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipwaydev/shipway-cli/internal/image"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/platform"
	"github.com/shipwaydev/shipway-cli/internal/registry"
	"github.com/shipwaydev/shipway-cli/internal/ui"
)

var releaseYes bool

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Promote the published image on the hosting platform",
	Long: `Instruct the hosting platform to promote the most recently published
image to the running deployment.

This is the final, all-or-nothing step: if it fails, the deployment stays on
its previously released image.

Examples:
  shipway release            # Promote with confirmation
  shipway release --yes      # Promote without prompting`,
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	releaseCmd.Flags().BoolVarP(&releaseYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runRelease(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	root, err := findWorkspaceRoot()
	if err != nil {
		return err
	}

	def, err := pipeline.Load(root)
	if err != nil {
		return err
	}

	if !releaseYes && !inCI() {
		ok, err := ui.AskConfirm(fmt.Sprintf("Promote %s process %q on %s?", def.App.Name, def.App.Process, def.Release.Platform), false)
		if err != nil || !ok {
			fmt.Println("Release aborted")
			return nil
		}
	}

	exec, err := newExecutor(root, def)
	if err != nil {
		return err
	}

	ref := registry.Reference(def.Registry.Host, def.App.Name, def.App.Process, image.Tag(root))
	releaser := platform.NewClient(exec, rootVerbose)
	if err := releaser.Release(ctx, def, ref); err != nil {
		return fmt.Errorf("❌ Release failed: %w", err)
	}

	fmt.Println(ui.Success("Released " + def.App.Name))
	return nil
}
