// Package executor runs pipeline step commands through the shell.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// Result holds the outcome of a single step command.
type Result struct {
	Command  string
	ExitCode int
	Duration time.Duration
}

// Executor handles step command execution.
type Executor struct {
	workDir string
	env     []string
	stdout  io.Writer
	stderr  io.Writer
	logger  *zap.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithEnv appends extra "KEY=value" pairs to the environment of every command.
func WithEnv(env []string) Option {
	return func(e *Executor) {
		e.env = append(e.env, env...)
	}
}

// WithOutput redirects command output away from the process stdout/stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(e *Executor) {
		e.stdout = stdout
		e.stderr = stderr
	}
}

// WithLogger sets the structured logger used for step start/finish events.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// New creates a new executor rooted at workDir.
func New(workDir string, opts ...Option) *Executor {
	e := &Executor{
		workDir: workDir,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes a single shell command and waits for it to finish.
//
// The command inherits the process environment plus the executor's extra
// variables. A non-zero exit is returned as an error; the Result carries the
// exit code either way so callers can propagate it.
func (e *Executor) Run(ctx context.Context, name, command string) (*Result, error) {
	return e.RunEnv(ctx, name, command, nil)
}

// RunEnv is Run with additional environment variables scoped to this command.
func (e *Executor) RunEnv(ctx context.Context, name, command string, extraEnv []string) (*Result, error) {
	start := time.Now()
	e.logger.Info("step started",
		zap.String("step", name),
		zap.String("command", command),
	)

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = e.workDir
	cmd.Env = append(append(os.Environ(), e.env...), extraEnv...)
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	err := cmd.Run()
	result := &Result{
		Command:  command,
		ExitCode: exitCode(err),
		Duration: time.Since(start),
	}

	e.logger.Info("step finished",
		zap.String("step", name),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration),
	)

	if err != nil {
		if ctx.Err() != nil {
			return result, fmt.Errorf("step %s canceled: %w", name, ctx.Err())
		}
		return result, fmt.Errorf("step %s failed with exit code %d: %w", name, result.ExitCode, err)
	}

	return result, nil
}

// RunWithTimeout executes a command with a per-step timeout.
// A zero timeout means no limit beyond the parent context.
func (e *Executor) RunWithTimeout(ctx context.Context, name, command string, timeout time.Duration) (*Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return e.Run(ctx, name, command)
}

// exitCode extracts the command exit code from a Run error.
// Returns 0 on success and -1 when the command never ran.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
