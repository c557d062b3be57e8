package pipeline

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/shipwaydev/shipway-cli/pkg/xos"
)

// RunDirName is the directory run reports are written to, relative to the
// workspace root.
const RunDirName = ".shipway/runs"

// RunReport is the persisted record of a single pipeline run.
type RunReport struct {
	ID         string        `json:"id"`
	App        string        `json:"app"`
	Branch     string        `json:"branch"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Phase      string        `json:"phase"`
	Image      string        `json:"image,omitempty"`
	Error      string        `json:"error,omitempty"`
	Stages     []StageReport `json:"stages"`
}

// StageReport records the outcome of one phase transition.
type StageReport struct {
	Phase     string        `json:"phase"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Failed    bool          `json:"failed,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// newRunReport starts a report for a run of the given app on branch.
// The nanosecond suffix keeps IDs distinct for runs started within the same
// second.
func newRunReport(app, branch string) *RunReport {
	now := time.Now().UTC()
	return &RunReport{
		ID:        fmt.Sprintf("%s-%09d", now.Format("20060102-150405"), now.Nanosecond()),
		App:       app,
		Branch:    branch,
		StartedAt: now,
	}
}

// recordStage appends a phase outcome to the report.
func (r *RunReport) recordStage(phase Phase, startedAt time.Time, err error) {
	stage := StageReport{
		Phase:     phase.String(),
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
	}
	if err != nil {
		stage.Failed = true
		stage.Error = err.Error()
	}
	r.Stages = append(r.Stages, stage)
}

// finish closes the report with the terminal phase and error, if any.
func (r *RunReport) finish(phase Phase, err error) {
	r.FinishedAt = time.Now().UTC()
	r.Phase = phase.String()
	if err != nil {
		r.Error = err.Error()
	}
}

// Save writes the report as JSON under root atomically.
func (r *RunReport) Save(root string) (string, error) {
	dir := filepath.Join(root, RunDirName)
	if err := xos.CreateDir(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run report: %w", err)
	}

	path := filepath.Join(dir, r.ID+".json")
	if err := xos.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run report: %w", err)
	}

	return path, nil
}
