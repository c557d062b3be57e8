package pipeline

// Phase is a state of the release pipeline. Phases advance strictly in
// declaration order; a failed phase terminates the run.
type Phase int

const (
	PhaseTriggered Phase = iota + 1
	PhaseToolchainPrepared
	PhaseVerified
	PhaseBuilt
	PhaseAuthenticated
	PhasePublished
	PhaseReleased
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseTriggered:
		return "triggered"
	case PhaseToolchainPrepared:
		return "toolchain-prepared"
	case PhaseVerified:
		return "verified"
	case PhaseBuilt:
		return "built"
	case PhaseAuthenticated:
		return "authenticated"
	case PhasePublished:
		return "published"
	case PhaseReleased:
		return "released"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase ends a run.
func (p Phase) Terminal() bool {
	return p == PhaseReleased || p == PhaseFailed
}
