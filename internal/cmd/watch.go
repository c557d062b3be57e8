package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/toolchain"
	"github.com/shipwaydev/shipway-cli/internal/ui"
	"github.com/shipwaydev/shipway-cli/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run verification on source changes",
	Long: `Watch the workspace and re-run the verification steps whenever a source
file or a pipeline artifact changes. Useful while iterating before a push;
the pipeline itself never runs from here.

Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, err := findWorkspaceRoot()
	if err != nil {
		return err
	}

	watcher, err := watch.NewWatcher(watch.DefaultConfig(root))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Stop()

	fmt.Printf("👀 Watching %s (Ctrl+C to stop)\n", root)

	// First pass before any change arrives.
	verifyOnce(ctx, root)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\n👋 Stopped watching")
			return nil
		case change := <-watcher.Changes():
			fmt.Printf("\n📝 %s changed\n", change.Path)
			verifyOnce(ctx, root)
		case err := <-watcher.Errors():
			fmt.Println(ui.Warning(fmt.Sprintf("Watcher error: %v", err)))
		}
	}
}

// verifyOnce reloads the definition and runs verification, reporting the
// outcome without terminating the watch loop.
func verifyOnce(ctx context.Context, root string) {
	def, err := pipeline.Load(root)
	if err != nil {
		fmt.Println(ui.Error(err.Error()))
		return
	}

	exec, err := newExecutor(root, def)
	if err != nil {
		fmt.Println(ui.Error(err.Error()))
		return
	}

	manager := toolchain.NewManager(exec, rootVerbose)
	if err := manager.Verify(ctx, def); err != nil {
		fmt.Println(ui.Error(fmt.Sprintf("Verification failed: %v", err)))
		return
	}

	fmt.Println(ui.Success("Verification passed"))
}
