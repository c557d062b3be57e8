package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/shipwaydev/shipway-cli/internal/image"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/platform"
	"github.com/shipwaydev/shipway-cli/internal/registry"
	"github.com/shipwaydev/shipway-cli/internal/toolchain"
	"github.com/shipwaydev/shipway-cli/internal/ui"
)

var (
	runCI    bool
	runForce bool
	runYes   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full release pipeline",
	Long: `Run the release pipeline end-to-end for the current workspace:

  1. Prepare the toolchain (compiler, linter, experimental channel)
  2. Verify (type check, lint with warnings as errors, full test suite)
  3. Build the container image from the build manifest
  4. Authenticate to the container registry
  5. Push the tagged image
  6. Release the image on the hosting platform

The pipeline only runs for the branch declared in the trigger; on any other
branch the run is skipped. The first failing step aborts the run and its exit
code becomes the process exit status. Nothing is retried.

Examples:
  shipway run                # Release from the trigger branch
  shipway run --ci           # CI mode (no prompts, plain output)
  shipway run --force        # Ignore the branch gate`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runCI, "ci", false, "CI mode (no prompts, plain output)")
	runCmd.Flags().BoolVar(&runForce, "force", false, "Run even when the current branch does not match the trigger")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Skip the release confirmation prompt")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if inCI() {
		runCI = true
	}

	root, err := findWorkspaceRoot()
	if err != nil {
		return err
	}

	def, err := pipeline.Load(root)
	if err != nil {
		return err
	}

	branch, err := currentBranch(root)
	if err != nil {
		return err
	}

	exec, err := newExecutor(root, def)
	if err != nil {
		return err
	}

	verbose := rootVerbose && !runCI
	manager := toolchain.NewManager(exec, verbose)
	builder := image.NewBuilder(exec, root, verbose)
	publisher := registry.NewClient(exec, verbose)
	releaser := platform.NewClient(exec, verbose)

	logger, err := stepLogger()
	if err != nil {
		return err
	}

	opts := []pipeline.RunnerOption{pipeline.WithRunnerLogger(logger)}

	var bar *progressbar.ProgressBar
	if !runCI && !rootVerbose {
		bar = progressbar.NewOptions(pipeline.StageCount,
			progressbar.OptionSetDescription(ui.IconShip+" releasing "+def.App.Name),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(os.Stderr, "\n")
			}),
		)
		opts = append(opts, pipeline.WithPhaseHook(func(phase pipeline.Phase) {
			bar.Describe(fmt.Sprintf("%s %s", ui.IconShip, phase))
			bar.Add(1)
		}))
	}

	runner := pipeline.NewRunner(def, branch, manager, manager, builder, publisher, releaser, opts...)

	if !runner.Triggered() && !runForce {
		fmt.Printf("⏭️  Skipping: branch %q is not the release branch %q\n", branch, def.Trigger.Branch)
		return nil
	}

	if !runCI && !runYes {
		ok, err := ui.AskConfirm(fmt.Sprintf("Release %s from branch %s?", def.App.Name, branch), true)
		if err != nil || !ok {
			fmt.Println("Release aborted")
			return nil
		}
	}

	report, runErr := runner.Run(ctx)
	if path, saveErr := report.Save(root); saveErr != nil {
		fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("Failed to save run report: %v", saveErr)))
	} else if verbose {
		fmt.Printf("📄 Run report: %s\n", path)
	}

	if runErr != nil {
		return fmt.Errorf("❌ Pipeline failed: %w", runErr)
	}

	if runCI {
		fmt.Println(ui.Success(fmt.Sprintf("Released %s (%s)", def.App.Name, report.Image)))
	} else {
		fmt.Println(ui.Success(fmt.Sprintf("Released %s successfully! (%s)", def.App.Name, report.Image)))
	}
	return nil
}
