package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// Status is the outcome of one test case.
type Status string

const (
	// StatusPassed means the test ran and returned no error.
	StatusPassed Status = "passed"

	// StatusFailed means the test returned an error or panicked.
	StatusFailed Status = "failed"

	// StatusSkipped means the test was not run.
	StatusSkipped Status = "skipped"
)

// Result captures the execution details of a single test case. Duration is
// serialised as nanoseconds, the default for time.Duration.
type Result struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Scenario  string        `json:"scenario"`
	Kind      testcase.Kind `json:"kind"`
	Status    Status        `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Report holds every result of a run in execution order.
type Report struct {
	RunID       string    `json:"run_id"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	DryRun      bool      `json:"dry_run,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	// Duration is the wall-clock time of the whole run.
	Duration time.Duration `json:"duration"`
	Results  []Result      `json:"results"`
	// SetupFailed lists the scenarios whose setup failed, in run order.
	SetupFailed []string `json:"setup_failed"`
}

// Summary counts results by status.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// newReport creates a Report with non-nil slices so JSON renders [] rather
// than null.
func newReport(runID string, dryRun bool) *Report {
	return &Report{
		RunID:       runID,
		DryRun:      dryRun,
		StartedAt:   time.Now(),
		Results:     []Result{},
		SetupFailed: []string{},
	}
}

// add appends a result.
func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

// Summary tallies the report.
func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.Results)}
	for _, res := range r.Results {
		switch res.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Failed reports whether any test failed.
func (r *Report) Failed() bool {
	return r.Summary().Failed > 0
}

// Lookup returns the result for the test with the given ID, or nil.
func (r *Report) Lookup(id string) *Result {
	for i := range r.Results {
		if r.Results[i].ID == id {
			return &r.Results[i]
		}
	}
	return nil
}

// WriteJSON persists the report as indented JSON at path. The write goes to
// a temp file in the same directory first and is renamed into place.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("creating temp report: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming report to %q: %w", path, err)
	}
	return nil
}

// ReadReport loads a report previously written with WriteJSON.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %q: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding report %q: %w", path, err)
	}
	return &r, nil
}
