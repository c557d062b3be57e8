package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ToolchainManager prepares the compiler toolchain and linter before
// verification.
type ToolchainManager interface {
	Prepare(ctx context.Context, def *Definition) error
}

// Verifier runs static verification and the full test suite.
type Verifier interface {
	Verify(ctx context.Context, def *Definition) error
}

// ImageBuilder produces a tagged container image and returns its reference.
type ImageBuilder interface {
	Build(ctx context.Context, def *Definition) (string, error)
}

// Publisher authenticates to the registry and pushes the tagged image.
type Publisher interface {
	Login(ctx context.Context, def *Definition) error
	Push(ctx context.Context, ref string) error
}

// Releaser promotes the published image to the running deployment.
type Releaser interface {
	Release(ctx context.Context, def *Definition, ref string) error
}

// Runner drives one pipeline run through its phases in strict order.
//
// Phases never run concurrently and never reorder: a phase starts only after
// its predecessor completed successfully. The first failure terminates the
// run with the Failed phase; nothing is retried.
type Runner struct {
	def       *Definition
	branch    string
	toolchain ToolchainManager
	verifier  Verifier
	builder   ImageBuilder
	publisher Publisher
	releaser  Releaser
	logger    *zap.Logger
	onPhase   func(Phase)

	phase Phase
}

// StageCount is the number of phase transitions a full run performs.
const StageCount = 6

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the structured logger for phase transitions.
func WithRunnerLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithPhaseHook registers a callback invoked after each completed phase.
func WithPhaseHook(hook func(Phase)) RunnerOption {
	return func(r *Runner) {
		r.onPhase = hook
	}
}

// NewRunner wires a runner from its collaborators.
func NewRunner(def *Definition, branch string, tc ToolchainManager, v Verifier, b ImageBuilder, p Publisher, rel Releaser, opts ...RunnerOption) *Runner {
	r := &Runner{
		def:       def,
		branch:    branch,
		toolchain: tc,
		verifier:  v,
		builder:   b,
		publisher: p,
		releaser:  rel,
		logger:    zap.NewNop(),
		phase:     PhaseTriggered,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Phase returns the phase the pipeline last completed.
func (r *Runner) Phase() Phase {
	return r.phase
}

// Triggered reports whether the given branch matches the trigger condition.
func (r *Runner) Triggered() bool {
	return r.branch == r.def.Trigger.Branch
}

// Run executes the pipeline end-to-end and returns the run report.
//
// The report is returned for failed runs as well, so callers can always
// persist it. The returned error carries the failure category and the
// failing command's exit status.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	report := newRunReport(r.def.App.Name, r.branch)

	var image string
	stages := []struct {
		phase Phase
		cat   error
		run   func(context.Context) error
	}{
		{PhaseToolchainPrepared, ErrToolchain, func(ctx context.Context) error {
			return r.toolchain.Prepare(ctx, r.def)
		}},
		{PhaseVerified, ErrVerify, func(ctx context.Context) error {
			return r.verifier.Verify(ctx, r.def)
		}},
		{PhaseBuilt, ErrBuild, func(ctx context.Context) (err error) {
			image, err = r.builder.Build(ctx, r.def)
			return err
		}},
		{PhaseAuthenticated, ErrAuth, func(ctx context.Context) error {
			return r.publisher.Login(ctx, r.def)
		}},
		{PhasePublished, ErrPublish, func(ctx context.Context) error {
			return r.publisher.Push(ctx, image)
		}},
		{PhaseReleased, ErrRelease, func(ctx context.Context) error {
			return r.releaser.Release(ctx, r.def, image)
		}},
	}

	for _, stage := range stages {
		start := time.Now()
		r.logger.Info("phase starting", zap.Stringer("phase", stage.phase))

		if err := stage.run(ctx); err != nil {
			err = categorize(stage.cat, err)
			report.recordStage(stage.phase, start, err)
			report.finish(PhaseFailed, err)
			r.phase = PhaseFailed
			r.logger.Error("pipeline failed",
				zap.Stringer("phase", stage.phase),
				zap.Error(err),
			)
			return report, &StageError{Phase: stage.phase, Err: err}
		}

		report.recordStage(stage.phase, start, nil)
		r.phase = stage.phase
		if r.onPhase != nil {
			r.onPhase(stage.phase)
		}
		r.logger.Info("phase complete", zap.Stringer("phase", stage.phase))
	}

	report.Image = image
	report.finish(PhaseReleased, nil)
	return report, nil
}

// categorize wraps err with the phase's failure category unless a more
// specific category was already attached downstream.
func categorize(cat, err error) error {
	for _, known := range []error{ErrToolchain, ErrVerify, ErrTests, ErrBuild, ErrAuth, ErrPublish, ErrRelease} {
		if errors.Is(err, known) {
			return err
		}
	}
	return &categoryError{cat: cat, err: err}
}

// categoryError attaches a failure category without flattening the original
// error chain, so exit codes remain extractable.
type categoryError struct {
	cat error
	err error
}

func (e *categoryError) Error() string {
	return e.cat.Error() + ": " + e.err.Error()
}

func (e *categoryError) Unwrap() []error {
	return []error{e.cat, e.err}
}
