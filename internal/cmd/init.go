package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shipwaydev/shipway-cli/internal/generator"
	"github.com/shipwaydev/shipway-cli/internal/ui"
)

var (
	initProcess      string
	initBranch       string
	initRegistry     string
	initPlatform     string
	initBaseImage    string
	initUser         string
	initExperimental bool
)

var initCmd = &cobra.Command{
	Use:   "init <app-name>",
	Short: "Scaffold the pipeline artifacts for a workspace",
	Long: `Generate the pipeline definition (shipway.yaml), the build manifest
(build.yaml), and a CI workflow that runs the pipeline on pushes to the
trigger branch. Existing files are left untouched.

Examples:
  shipway init congratulator
  shipway init congratulator --registry registry.heroku.com --process worker
  shipway init congratulator --experimental`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initProcess, "process", "worker", "Process type the image runs as")
	initCmd.Flags().StringVar(&initBranch, "branch", "main", "Branch that triggers the pipeline")
	initCmd.Flags().StringVar(&initRegistry, "registry", "registry.heroku.com", "Container registry host")
	initCmd.Flags().StringVar(&initPlatform, "platform", "heroku", "Hosting platform")
	initCmd.Flags().StringVar(&initBaseImage, "base-image", "golang:1.24-bookworm", "Base image for the build manifest")
	initCmd.Flags().StringVar(&initUser, "user", "shipper", "Unprivileged runtime user")
	initCmd.Flags().BoolVar(&initExperimental, "experimental", false, "Install the experimental toolchain channel during preparation")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	scaffolder := generator.NewScaffolder(cwd)
	written, err := scaffolder.Scaffold(generator.Options{
		App:          args[0],
		Process:      initProcess,
		Branch:       initBranch,
		Registry:     initRegistry,
		Platform:     initPlatform,
		BaseImage:    initBaseImage,
		User:         initUser,
		Experimental: initExperimental,
	})
	if err != nil {
		return fmt.Errorf("❌ Scaffolding failed: %w", err)
	}

	if len(written) == 0 {
		fmt.Println("⏭️  Nothing to do: all artifacts already exist")
		return nil
	}

	for _, path := range written {
		fmt.Printf("  ✓ Generated %s\n", path)
	}
	fmt.Println(ui.Success("Workspace ready. Run 'shipway validate' to check the configuration."))
	return nil
}
