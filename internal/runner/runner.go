// Package runner executes an orchestrated test order strictly in sequence.
//
// The runner is the execution side of the orchestration layer: it records
// each setup case's outcome in a tracker.Tracker and consults the tracker
// before every body test, skipping bodies whose scenario setup failed.
// Setup and teardown cases are never gated. A failing setup is a test
// result, not a runner error.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/testcase"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/tracker"
)

// dryRunReason is the skip reason for every test in a dry run.
const dryRunReason = "dry-run"

// Runner executes test orders and reports results.
type Runner struct {
	tracker *tracker.Tracker
	parse   testcase.Parser
	events  chan<- Event
	block   bool
	logger  *log.Logger
	dryRun  bool
	runID   string
}

// Option configures the Runner.
type Option func(*Runner)

// WithTracker sets the failure tracker consulted by the skip gate. When not
// set the runner creates its own.
func WithTracker(t *tracker.Tracker) Option {
	return func(r *Runner) { r.tracker = t }
}

// WithParser sets the identifier parser used to resolve each test's
// scenario. It must match the parser used to build the order.
func WithParser(p testcase.Parser) Option {
	return func(r *Runner) { r.parse = p }
}

// WithEventChannel sets the channel on which the runner broadcasts events.
// Sends are non-blocking so a slow consumer never stalls execution; events
// that do not fit are dropped. See WithBlockingEvents.
func WithEventChannel(ch chan<- Event) Option {
	return func(r *Runner) { r.events = ch }
}

// WithBlockingEvents makes every send on the event channel wait for the
// consumer, so no event is dropped. The consumer must keep reading until
// Run returns.
func WithBlockingEvents() Option {
	return func(r *Runner) { r.block = true }
}

// WithLogger attaches a charmbracelet/log Logger. When nil the runner is
// silent.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithDryRun makes Run report every test as skipped without executing it.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// New creates a Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracker == nil {
		r.tracker = tracker.New()
	}
	if r.parse == nil {
		r.parse = testcase.ParseBracket
	}
	return r
}

// Tracker returns the failure tracker used by the runner.
func (r *Runner) Tracker() *tracker.Tracker { return r.tracker }

// Run executes order in sequence and returns the report. The tracker is
// reset first so outcomes from an earlier run never leak in.
//
// The context is checked between tests; a cancelled context stops the run
// and Run returns the partial report with the context error. A test that is
// already running is given the same context and is expected to honour it.
func (r *Runner) Run(ctx context.Context, order []testcase.TestCase) (*Report, error) {
	runID := r.runID
	if runID == "" {
		runID = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	report := newReport(runID, r.dryRun)
	r.tracker.Reset()

	r.emit(Event{Type: EventRunStarted, RunID: runID,
		Message: fmt.Sprintf("running %d test(s)", len(order))})
	r.log("run started", "run", runID, "tests", len(order), "dry_run", r.dryRun)

	for _, tc := range order {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(report.StartedAt)
			return report, fmt.Errorf("runner: context cancelled before %q: %w", tc.ID, err)
		}

		scenarioName, err := r.parse(tc.ID)
		if err != nil {
			// The orchestrator rejects malformed identifiers, so this only
			// happens when the order was assembled by hand.
			report.Duration = time.Since(report.StartedAt)
			return report, fmt.Errorf("runner: %w", err)
		}

		res := r.runOne(ctx, runID, scenarioName, tc)
		report.add(res)

		if tc.Kind == testcase.KindSetup && res.Status == StatusFailed {
			report.SetupFailed = append(report.SetupFailed, scenarioName)
		}
	}

	report.Duration = time.Since(report.StartedAt)
	sum := report.Summary()
	r.emit(Event{Type: EventRunCompleted, RunID: runID,
		Message: fmt.Sprintf("%d passed, %d failed, %d skipped", sum.Passed, sum.Failed, sum.Skipped)})
	r.log("run completed", "run", runID,
		"passed", sum.Passed, "failed", sum.Failed, "skipped", sum.Skipped,
		"duration", report.Duration)

	return report, nil
}

// runOne applies the skip gate, executes tc and records setup outcomes.
func (r *Runner) runOne(ctx context.Context, runID, scenarioName string, tc testcase.TestCase) Result {
	res := Result{
		ID:        tc.ID,
		Name:      tc.Name,
		Scenario:  scenarioName,
		Kind:      tc.Kind,
		StartedAt: time.Now(),
	}

	if r.dryRun {
		return r.skip(runID, res, dryRunReason)
	}

	if tc.Kind == testcase.KindBody && r.tracker.HasSetupFailed(scenarioName) {
		return r.skip(runID, res, tracker.SkipReason(scenarioName))
	}

	r.emit(Event{Type: EventTestStarted, RunID: runID, TestID: tc.ID, Scenario: scenarioName,
		Kind: tc.Kind, Message: fmt.Sprintf("%s started", tc.ID)})
	r.debug("test started", "test", tc.ID, "kind", tc.Kind)

	err := safeExecute(ctx, tc)
	res.Duration = time.Since(res.StartedAt)

	if tc.Kind == testcase.KindSetup {
		r.tracker.RecordSetupOutcome(scenarioName, tracker.Failed(err))
	}

	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		r.emit(Event{Type: EventTestFailed, RunID: runID, TestID: tc.ID, Scenario: scenarioName,
			Kind: tc.Kind, Message: fmt.Sprintf("%s failed", tc.ID), Error: err.Error()})
		r.warn("test failed", "test", tc.ID, "error", err)

		if tc.Kind == testcase.KindSetup {
			r.emit(Event{Type: EventSetupFailed, RunID: runID, TestID: tc.ID, Scenario: scenarioName,
				Kind: tc.Kind, Message: fmt.Sprintf("setup for %s failed; body tests will be skipped", scenarioName),
				Error: err.Error()})
		}
		return res
	}

	res.Status = StatusPassed
	r.emit(Event{Type: EventTestPassed, RunID: runID, TestID: tc.ID, Scenario: scenarioName,
		Kind: tc.Kind, Message: fmt.Sprintf("%s passed", tc.ID)})
	r.debug("test passed", "test", tc.ID, "duration", res.Duration)
	return res
}

func (r *Runner) skip(runID string, res Result, reason string) Result {
	res.Status = StatusSkipped
	res.Reason = reason
	r.emit(Event{Type: EventTestSkipped, RunID: runID, TestID: res.ID, Scenario: res.Scenario,
		Kind: res.Kind, Message: reason})
	r.log("test skipped", "test", res.ID, "reason", reason)
	return res
}

// safeExecute runs tc with a recover() guard so a panicking test counts as
// a failure instead of crashing the process.
func safeExecute(ctx context.Context, tc testcase.TestCase) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("test %q panicked: %v", tc.ID, p)
		}
	}()
	return tc.Execute(ctx)
}

// emit sends ev to the event channel, dropping it when the channel is full
// unless blocking sends were requested. It is a no-op when no channel is
// configured.
func (r *Runner) emit(ev Event) {
	if r.events == nil {
		return
	}
	ev.Timestamp = time.Now()
	if r.block {
		r.events <- ev
		return
	}
	select {
	case r.events <- ev:
	default:
	}
}

func (r *Runner) log(msg string, kvs ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Info(msg, kvs...)
}

func (r *Runner) debug(msg string, kvs ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Debug(msg, kvs...)
}

func (r *Runner) warn(msg string, kvs ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(msg, kvs...)
}
