package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/toolchain"
	"github.com/shipwaydev/shipway-cli/internal/ui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the toolchain required by the pipeline",
	Long: `Prepare the machine for pipeline runs: run the declared toolchain
preparation steps, install the linter when missing, and install the
experimental toolchain channel when the definition enables it.

This is the same preparation 'shipway run' performs as its first phase.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
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

	manager := toolchain.NewManager(exec, true)
	if err := manager.Prepare(ctx, def); err != nil {
		return fmt.Errorf("❌ Setup failed: %w", err)
	}

	fmt.Println(ui.Success("Toolchain ready"))
	return nil
}
