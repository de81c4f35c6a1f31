package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/runner"
)

// feed applies msgs to m in order and returns the resulting model.
func feed(t *testing.T, m liveModel, msgs ...tea.Msg) liveModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(liveModel)
		require.True(t, ok)
	}
	return m
}

func TestLiveModel_CountsEvents(t *testing.T) {
	m := newLiveModel(4, nil, nil)
	m = feed(t, m,
		eventMsg{Type: runner.EventRunStarted},
		eventMsg{Type: runner.EventTestStarted, TestID: "setup[base]"},
		eventMsg{Type: runner.EventTestFailed, TestID: "setup[base]", Error: "exit status 1"},
		eventMsg{Type: runner.EventSetupFailed, Scenario: "base"},
		eventMsg{Type: runner.EventTestSkipped, TestID: "attr_a[base]", Message: "Setup for base failed, skipping..."},
		eventMsg{Type: runner.EventTestStarted, TestID: "teardown[base]"},
	)

	assert.Equal(t, 0, m.passed)
	assert.Equal(t, 1, m.failed)
	assert.Equal(t, 1, m.skipped)
	assert.Equal(t, "teardown[base]", m.current)
	require.Len(t, m.recent, 2)

	view := m.View()
	assert.Contains(t, view, "2/4")
	assert.Contains(t, view, "1 failed")
	assert.Contains(t, view, "teardown[base]")
	assert.Contains(t, view, "attr_a[base]")
}

func TestLiveModel_KeepsRecentLines(t *testing.T) {
	m := newLiveModel(10, nil, nil)
	for i := 0; i < liveRecentLines+3; i++ {
		m = feed(t, m, eventMsg{Type: runner.EventTestPassed, TestID: "t"})
	}
	assert.Len(t, m.recent, liveRecentLines)
	assert.Equal(t, liveRecentLines+3, m.passed)
}

func TestLiveModel_QuitsWhenEventsClose(t *testing.T) {
	m := newLiveModel(1, nil, nil)

	next, cmd := m.Update(eventsClosedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestLiveModel_CtrlCCancelsOnce(t *testing.T) {
	calls := 0
	m := newLiveModel(3, nil, func() { calls++ })

	m = feed(t, m,
		tea.KeyMsg{Type: tea.KeyCtrlC},
		tea.KeyMsg{Type: tea.KeyCtrlC},
	)
	assert.Equal(t, 1, calls)
	assert.True(t, m.stopping)
	assert.Contains(t, m.View(), "stopping after the current test")
}

func TestWaitForEvent(t *testing.T) {
	events := make(chan runner.Event, 1)
	events <- runner.Event{Type: runner.EventTestPassed, TestID: "a[base]"}

	msg := waitForEvent(events)()
	assert.Equal(t, eventMsg{Type: runner.EventTestPassed, TestID: "a[base]"}, msg)

	close(events)
	assert.Equal(t, eventsClosedMsg{}, waitForEvent(events)())
}
