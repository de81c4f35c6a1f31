// Package tracker records, per scenario, whether the scenario's setup case
// failed, and answers the skip-gate question asked before every body test.
package tracker

import (
	"fmt"
	"maps"
	"sync"
)

// Tracker maps scenario names to their setup outcome for one run. Entries
// exist only for scenarios whose setup has completed; a missing entry means
// "not failed", which covers no-setup mode and scenarios whose setup case
// was not collected.
//
// Execution is sequential today, but the mutex keeps the tracker safe if
// suites are ever executed from more than one goroutine.
type Tracker struct {
	mu     sync.Mutex
	failed map[string]bool
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{failed: make(map[string]bool)}
}

// RecordSetupOutcome stores whether the setup of scenarioName failed. It is
// called once per scenario per run, right after the setup case completes;
// a second call overwrites the first.
func (t *Tracker) RecordSetupOutcome(scenarioName string, failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed[scenarioName] = failed
}

// HasSetupFailed reports the recorded outcome for scenarioName, or false when
// nothing was recorded.
func (t *Tracker) HasSetupFailed(scenarioName string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed[scenarioName]
}

// Recorded reports whether an outcome exists for scenarioName.
func (t *Tracker) Recorded(scenarioName string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.failed[scenarioName]
	return ok
}

// Reset clears every entry. Call it at the start of a run.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.failed)
}

// Snapshot returns a copy of the recorded outcomes.
func (t *Tracker) Snapshot() map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.failed)
}

// Failed converts the result of a setup case into the recorded outcome. Any
// error, including a recovered panic surfaced as an error, is a failure.
func Failed(err error) bool {
	return err != nil
}

// SkipReason is the reason reported for a body test skipped because the
// setup of scenarioName failed.
func SkipReason(scenarioName string) string {
	return fmt.Sprintf("Setup for %s failed, skipping...", scenarioName)
}
