package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStages records the order collaborator calls happen in and lets single
// stages be rigged to fail.
type fakeStages struct {
	calls []string

	prepareErr error
	verifyErr  error
	buildErr   error
	loginErr   error
	pushErr    error
	releaseErr error

	builtRef    string
	pushedRef   string
	releasedRef string
}

func (f *fakeStages) Prepare(ctx context.Context, def *Definition) error {
	f.calls = append(f.calls, "prepare")
	return f.prepareErr
}

func (f *fakeStages) Verify(ctx context.Context, def *Definition) error {
	f.calls = append(f.calls, "verify")
	return f.verifyErr
}

func (f *fakeStages) Build(ctx context.Context, def *Definition) (string, error) {
	f.calls = append(f.calls, "build")
	if f.buildErr != nil {
		return "", f.buildErr
	}
	return f.builtRef, nil
}

func (f *fakeStages) Login(ctx context.Context, def *Definition) error {
	f.calls = append(f.calls, "login")
	return f.loginErr
}

func (f *fakeStages) Push(ctx context.Context, ref string) error {
	f.calls = append(f.calls, "push")
	f.pushedRef = ref
	return f.pushErr
}

func (f *fakeStages) Release(ctx context.Context, def *Definition, ref string) error {
	f.calls = append(f.calls, "release")
	f.releasedRef = ref
	return f.releaseErr
}

func testDefinition() *Definition {
	def := &Definition{
		Version:  "1",
		App:      App{Name: "congratulator"},
		Registry: Registry{Host: "registry.heroku.com"},
		Verify:   []Step{{Name: "test", Run: "go test ./..."}},
	}
	def.applyDefaults()
	return def
}

func newTestRunner(def *Definition, branch string, f *fakeStages, opts ...RunnerOption) *Runner {
	return NewRunner(def, branch, f, f, f, f, f, opts...)
}

func TestRunExecutesStagesInOrder(t *testing.T) {
	f := &fakeStages{builtRef: "registry.heroku.com/congratulator/worker:abc1234"}
	runner := newTestRunner(testDefinition(), "main", f)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"prepare", "verify", "build", "login", "push", "release"}, f.calls)
	assert.Equal(t, PhaseReleased, runner.Phase())
	assert.Equal(t, f.builtRef, f.pushedRef)
	assert.Equal(t, f.builtRef, f.releasedRef)
	assert.Equal(t, f.builtRef, report.Image)
	assert.Equal(t, "released", report.Phase)
	assert.Len(t, report.Stages, StageCount)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	f := &fakeStages{verifyErr: errors.New("lint reported warnings")}
	runner := newTestRunner(testDefinition(), "main", f)

	report, err := runner.Run(context.Background())
	require.Error(t, err)

	// Nothing after the failing phase runs: no image built, no registry
	// interaction, no release.
	assert.Equal(t, []string{"prepare", "verify"}, f.calls)
	assert.Equal(t, PhaseFailed, runner.Phase())
	assert.Equal(t, "failed", report.Phase)
	assert.Empty(t, report.Image)
}

func TestRunFailureCarriesCategory(t *testing.T) {
	cases := []struct {
		name string
		rig  func(*fakeStages)
		want error
	}{
		{"toolchain", func(f *fakeStages) { f.prepareErr = errors.New("rustup exploded") }, ErrToolchain},
		{"verify", func(f *fakeStages) { f.verifyErr = errors.New("vet findings") }, ErrVerify},
		{"build", func(f *fakeStages) { f.buildErr = errors.New("layer error") }, ErrBuild},
		{"auth", func(f *fakeStages) { f.loginErr = errors.New("bad key") }, ErrAuth},
		{"publish", func(f *fakeStages) { f.pushErr = errors.New("connection reset") }, ErrPublish},
		{"release", func(f *fakeStages) { f.releaseErr = errors.New("platform 500") }, ErrRelease},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeStages{builtRef: "img:tag"}
			tc.rig(f)
			runner := newTestRunner(testDefinition(), "main", f)

			_, err := runner.Run(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var stageErr *StageError
			assert.ErrorAs(t, err, &stageErr)
		})
	}
}

func TestRunKeepsSpecificCategory(t *testing.T) {
	// A verifier that already tagged the failure as a test failure must not
	// be re-tagged as a generic verification failure.
	f := &fakeStages{verifyErr: &categoryError{cat: ErrTests, err: errors.New("1 test failed")}}
	runner := newTestRunner(testDefinition(), "main", f)

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTests)
	assert.NotErrorIs(t, err, ErrVerify)
}

func TestTriggered(t *testing.T) {
	def := testDefinition()
	f := &fakeStages{}

	assert.True(t, newTestRunner(def, "main", f).Triggered())
	assert.False(t, newTestRunner(def, "feature/foo", f).Triggered())
}

func TestPhaseHookFiresPerPhase(t *testing.T) {
	f := &fakeStages{builtRef: "img:tag"}
	var phases []Phase
	runner := newTestRunner(testDefinition(), "main", f,
		WithPhaseHook(func(p Phase) { phases = append(phases, p) }))

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Phase{
		PhaseToolchainPrepared,
		PhaseVerified,
		PhaseBuilt,
		PhaseAuthenticated,
		PhasePublished,
		PhaseReleased,
	}, phases)
}

func TestFailedRunRecordsFailingStage(t *testing.T) {
	f := &fakeStages{pushErr: errors.New("denied")}
	runner := newTestRunner(testDefinition(), "main", f)

	report, err := runner.Run(context.Background())
	require.Error(t, err)

	require.Len(t, report.Stages, 5)
	last := report.Stages[len(report.Stages)-1]
	assert.Equal(t, "published", last.Phase)
	assert.True(t, last.Failed)
	assert.Contains(t, last.Error, "denied")
	assert.NotEmpty(t, report.Error)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "triggered", PhaseTriggered.String())
	assert.Equal(t, "released", PhaseReleased.String())
	assert.Equal(t, "failed", PhaseFailed.String())
	assert.True(t, PhaseReleased.Terminal())
	assert.True(t, PhaseFailed.Terminal())
	assert.False(t, PhaseBuilt.Terminal())
}
