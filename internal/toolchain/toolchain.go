// Package toolchain prepares the build toolchain and runs static
// verification before any image is produced.
package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shipwaydev/shipway-cli/internal/executor"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
)

// Manager prepares the toolchain and verifies the source tree.
// It implements pipeline.ToolchainManager and pipeline.Verifier.
type Manager struct {
	exec    *executor.Executor
	verbose bool
}

// NewManager creates a manager running commands through exec.
func NewManager(exec *executor.Executor, verbose bool) *Manager {
	return &Manager{exec: exec, verbose: verbose}
}

// Prepare updates and installs the required toolchain.
//
// Runs the declared prepare steps in order, ensures the configured linter is
// available, and installs the experimental toolchain channel when the
// definition asks for it. The first failing command aborts preparation.
func (m *Manager) Prepare(ctx context.Context, def *pipeline.Definition) error {
	for _, step := range def.Toolchain.Prepare {
		name := step.Name
		if name == "" {
			name = "prepare"
		}
		if m.verbose {
			fmt.Printf("🔧 %s\n", name)
		}
		if _, err := m.exec.RunWithTimeout(ctx, name, step.Run, step.Timeout()); err != nil {
			return err
		}
	}

	if err := m.ensureLinter(ctx, def.Toolchain.Linter); err != nil {
		return err
	}

	if def.Toolchain.Experimental {
		if err := m.installExperimental(ctx); err != nil {
			return err
		}
	}

	return nil
}

// Verify runs the verification steps in declared order.
//
// Lint warnings are fatal: the lint step is expected to be configured with
// warnings-as-errors so any finding produces a nonzero exit. A failing test
// step is reported under the test failure category so callers can
// distinguish it from lint and type-check failures.
func (m *Manager) Verify(ctx context.Context, def *pipeline.Definition) error {
	for _, step := range def.Verify {
		name := step.Name
		if name == "" {
			name = "verify"
		}
		if m.verbose {
			fmt.Printf("🔍 %s\n", name)
		}
		if _, err := m.exec.RunWithTimeout(ctx, name, step.Run, step.Timeout()); err != nil {
			if isTestStep(step) {
				return fmt.Errorf("%w: %w", pipeline.ErrTests, err)
			}
			return fmt.Errorf("%w: %w", pipeline.ErrVerify, err)
		}
	}
	return nil
}

// ensureLinter verifies the linter binary is reachable, installing it when
// missing.
func (m *Manager) ensureLinter(ctx context.Context, linter string) error {
	installer := NewInstaller(m.verbose)
	if installer.IsInstalled(linter) {
		return nil
	}

	if m.verbose {
		fmt.Printf("📦 Installing %s...\n", linter)
	}

	if err := installer.Install(ctx, linter); err != nil {
		return fmt.Errorf("linter %s not found and install failed: %w", linter, err)
	}
	return nil
}

// installExperimental installs the secondary (nightly) toolchain channel.
func (m *Manager) installExperimental(ctx context.Context) error {
	if _, err := exec.LookPath("gotip"); err == nil {
		if _, err := m.exec.Run(ctx, "experimental toolchain", "gotip download"); err != nil {
			return err
		}
		return nil
	}
	_, err := m.exec.Run(ctx, "experimental toolchain",
		"go install golang.org/dl/gotip@latest && gotip download")
	return err
}

// isTestStep reports whether a verify step runs the test suite.
func isTestStep(step pipeline.Step) bool {
	if strings.Contains(strings.ToLower(step.Name), "test") {
		return true
	}
	return strings.HasPrefix(step.Run, "go test") || strings.HasPrefix(step.Run, "gotip test")
}
