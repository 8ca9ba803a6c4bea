package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// tickMsg drives the spinner on the running step.
type tickMsg time.Time

// StepStatus is the lifecycle state of one pipeline step.
type StepStatus int

const (
	StatusPending StepStatus = iota
	StatusRunning
	StatusDone
	StatusSkipped
	StatusFailed
)

type stepRow struct {
	name   string
	status StepStatus
	detail string
}

// StepModel is a bubbletea model that renders a toolchain pipeline as a
// checklist: one line per step with a state glyph, the step name, and a
// detail column that updates as the step progresses.
type StepModel struct {
	steps []stepRow
	index map[string]int

	// nameWidth pads every step name to the widest one.
	nameWidth int

	done bool
	err  error
	tick int
}

// NewStepModel creates a model with the given steps, rendered in order,
// all pending.
func NewStepModel(steps []string) StepModel {
	rows := make([]stepRow, len(steps))
	index := make(map[string]int, len(steps))
	width := 0
	for i, name := range steps {
		rows[i] = stepRow{name: name}
		index[name] = i
		if len(name) > width {
			width = len(name)
		}
	}
	return StepModel{steps: rows, index: index, nameWidth: width}
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m StepModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case StepStartMsg:
		m.setStep(msg.Step, StatusRunning, msg.Detail)
		return m, nil

	case StepDoneMsg:
		m.setStep(msg.Step, StatusDone, msg.Detail)
		return m, nil

	case StepSkipMsg:
		m.setStep(msg.Step, StatusSkipped, msg.Detail)
		return m, nil

	case StepFailMsg:
		m.setStep(msg.Step, StatusFailed, "")
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// setStep updates one step's state. Unknown step names are ignored so
// senders never have to know which steps a command chose to display.
func (m *StepModel) setStep(name string, status StepStatus, detail string) {
	idx, ok := m.index[name]
	if !ok {
		return
	}
	m.steps[idx].status = status
	if detail != "" {
		m.steps[idx].detail = detail
	}
}

// View satisfies the tea.Model interface.
func (m StepModel) View() string {
	var b strings.Builder
	for _, step := range m.steps {
		fmt.Fprintf(&b, "  %s %s", m.glyph(step.status), pad(step.name, m.nameWidth))
		if step.detail != "" {
			b.WriteString("  ")
			if step.status == StatusPending {
				b.WriteString(FaintStyle.Render(step.detail))
			} else {
				b.WriteString(step.detail)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// glyph returns the styled state marker for a step.
func (m StepModel) glyph(status StepStatus) string {
	switch status {
	case StatusRunning:
		return RunningStyle.Render(spinnerFrames[m.tick%len(spinnerFrames)])
	case StatusDone:
		return GoodStyle.Render("✓")
	case StatusSkipped:
		return WarnStyle.Render("!")
	case StatusFailed:
		return ErrorStyle.Render("✗")
	default:
		return FaintStyle.Render("·")
	}
}

// Done returns whether the model has finished (work done or error).
func (m StepModel) Done() bool {
	return m.done
}

// Err returns the error of the step that failed, if any.
func (m StepModel) Err() error {
	return m.err
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
