package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shipwaydev/shipway-cli/internal/executor"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
)

// colorEnv forces color output from the toolchain inside step commands.
const colorEnv = "CLICOLOR_FORCE=1"

// findWorkspaceRoot walks up from the working directory until it finds the
// pipeline definition.
func findWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, pipeline.DefinitionFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("not a shipway workspace (no %s found)", pipeline.DefinitionFileName)
}

// currentBranch returns the checked-out git branch for dir.
func currentBranch(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve current branch: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// inCI reports whether the process runs under an automation platform.
func inCI() bool {
	return os.Getenv("CI") == "true"
}

// stepLogger builds the structured logger for step execution. Without
// --log-json, logging is disabled and human output comes from the cmd layer.
func stepLogger() (*zap.Logger, error) {
	if !rootLogJSON {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// newExecutor builds the step executor for a workspace, carrying the
// pipeline's environment plus the color-forcing variable.
func newExecutor(root string, def *pipeline.Definition) (*executor.Executor, error) {
	logger, err := stepLogger()
	if err != nil {
		return nil, err
	}

	env := []string{colorEnv}
	for k, v := range def.Env {
		env = append(env, k+"="+v)
	}

	return executor.New(root,
		executor.WithEnv(env),
		executor.WithLogger(logger),
	), nil
}
