package pipeline

import (
	"errors"
	"fmt"
)

// Failure categories. Every category is fatal to the run; none are retried.
var (
	ErrToolchain = errors.New("toolchain preparation failed")
	ErrVerify    = errors.New("static verification failed")
	ErrTests     = errors.New("test suite failed")
	ErrBuild     = errors.New("image build failed")
	ErrAuth      = errors.New("registry authentication failed")
	ErrPublish   = errors.New("image publish failed")
	ErrRelease   = errors.New("release failed")
)

// StageError wraps a failure with the phase the pipeline was advancing to
// when the failing command ran.
type StageError struct {
	Phase Phase
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed advancing to %s: %v", e.Phase, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
