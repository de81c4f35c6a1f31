package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/runner"
)

// liveRecentLines is how many finished tests the live view keeps on screen.
const liveRecentLines = 5

// eventMsg carries one runner event into the live view.
type eventMsg runner.Event

// eventsClosedMsg signals that the runner closed its event channel.
type eventsClosedMsg struct{}

// liveModel is the bubbletea model behind "scenarist run --live". It shows
// a spinner with the running test, a pass-rate bar and the most recent
// results, and quits once the event channel closes.
type liveModel struct {
	events <-chan runner.Event
	cancel func()

	total   int
	passed  int
	failed  int
	skipped int
	current string
	recent  []string

	spin     spinner.Model
	bar      progress.Model
	stopping bool
	finished bool
}

func newLiveModel(total int, events <-chan runner.Event, cancel func()) liveModel {
	return liveModel{
		events: events,
		cancel: cancel,
		total:  total,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
	}
}

// waitForEvent returns a command that blocks on the next runner event.
func waitForEvent(events <-chan runner.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m liveModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.events))
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.apply(runner.Event(msg))
		return m, waitForEvent(m.events)

	case eventsClosedMsg:
		m.finished = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// The runner stops between tests and closes the channel.
			if !m.stopping && m.cancel != nil {
				m.cancel()
			}
			m.stopping = true
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply folds one runner event into the counters.
func (m *liveModel) apply(ev runner.Event) {
	switch ev.Type {
	case runner.EventTestStarted:
		m.current = ev.TestID
		return
	case runner.EventTestPassed:
		m.passed++
	case runner.EventTestFailed:
		m.failed++
	case runner.EventTestSkipped:
		m.skipped++
	default:
		return
	}
	m.current = ""
	m.recent = append(m.recent, formatEvent(ev))
	if len(m.recent) > liveRecentLines {
		m.recent = m.recent[len(m.recent)-liveRecentLines:]
	}
}

func (m liveModel) done() int { return m.passed + m.failed + m.skipped }

func (m liveModel) View() string {
	if m.finished {
		return ""
	}

	var sb strings.Builder
	for _, line := range m.recent {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	pct := 0.0
	if m.total > 0 {
		pct = float64(m.done()) / float64(m.total)
	}
	sb.WriteString(m.bar.ViewAs(pct))
	fmt.Fprintf(&sb, " %d/%d  %s, %s, %s\n", m.done(), m.total,
		stylePassed.Render(fmt.Sprintf("%d passed", m.passed)),
		styleFailed.Render(fmt.Sprintf("%d failed", m.failed)),
		styleSkipped.Render(fmt.Sprintf("%d skipped", m.skipped)),
	)

	switch {
	case m.stopping:
		sb.WriteString(styleDim.Render("stopping after the current test..."))
	case m.current != "":
		sb.WriteString(m.spin.View() + " " + m.current)
	default:
		sb.WriteString(m.spin.View())
	}
	sb.WriteString("\n")
	return sb.String()
}
