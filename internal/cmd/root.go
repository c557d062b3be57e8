package cmd

import (
	"errors"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/shipwaydev/shipway-cli/internal/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "shipway",
	Short: "Shipway CLI - Linear fail-fast release pipelines",
	Long: `Shipway drives an application from a source push to a running deployment:
it prepares the toolchain, verifies the source tree, builds a minimal-privilege
container image from a declarative build manifest, publishes it to a registry,
and promotes it on the hosting platform.

Steps execute strictly in order. The first failing step aborts the run.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	rootVerbose bool
	rootLogJSON bool
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Commands are registered in their respective files via init()
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Show detailed output")
	rootCmd.PersistentFlags().BoolVar(&rootLogJSON, "log-json", false, "Emit structured JSON step logs on stderr")
}

// ExitCode maps an error to the process exit status, propagating the failing
// step's exit code when one is available.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return code
		}
	}
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		return 1
	}
	return 1
}
