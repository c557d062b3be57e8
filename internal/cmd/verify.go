package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/toolchain"
	"github.com/shipwaydev/shipway-cli/internal/ui"
)

var verifySkipPrepare bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run static verification and the test suite",
	Long: `Prepare the toolchain and run the verification steps from the pipeline
definition: type check, lint with warnings as errors, and the full test suite.
No image is built.

Examples:
  shipway verify                 # Prepare toolchain, then verify
  shipway verify --skip-prepare  # Verification steps only`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifySkipPrepare, "skip-prepare", false, "Skip toolchain preparation")
}

func runVerify(cmd *cobra.Command, args []string) error {
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

	manager := toolchain.NewManager(exec, rootVerbose)

	if !verifySkipPrepare {
		if err := manager.Prepare(ctx, def); err != nil {
			return fmt.Errorf("❌ Toolchain preparation failed: %w", err)
		}
	}

	if err := manager.Verify(ctx, def); err != nil {
		return fmt.Errorf("❌ Verification failed: %w", err)
	}

	fmt.Println(ui.Success("Verification passed"))
	return nil
}
