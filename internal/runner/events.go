package runner

import (
	"time"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
)

// Event type constants identify the lifecycle milestone of an Event.
const (
	// EventRunStarted is emitted once before the first test runs.
	EventRunStarted = "run_started"

	// EventTestStarted is emitted when a test begins executing.
	EventTestStarted = "test_started"

	// EventTestPassed is emitted when a test returns without error.
	EventTestPassed = "test_passed"

	// EventTestFailed is emitted when a test returns an error or panics.
	EventTestFailed = "test_failed"

	// EventTestSkipped is emitted when a test is not run, either because its
	// scenario's setup failed or because the run is a dry run.
	EventTestSkipped = "test_skipped"

	// EventSetupFailed is emitted after a setup case fails, before its body
	// tests are skipped.
	EventSetupFailed = "setup_failed"

	// EventRunCompleted is emitted once after the last test.
	EventRunCompleted = "run_completed"
)

// Event is a structured message emitted during a run. Events are sent over
// a channel so callers can render progress while tests execute.
type Event struct {
	Type      string        `json:"type"`
	RunID     string        `json:"run_id"`
	TestID    string        `json:"test_id,omitempty"`
	Scenario  string        `json:"scenario,omitempty"`
	Kind      testcase.Kind `json:"kind,omitempty"`
	Message   string        `json:"message"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
