package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// StepWriter is the plain-output counterpart of StepModel. It consumes the
// same messages a work function sends and prints one line per finished
// step, which suits logs and non-interactive shells.
type StepWriter struct {
	w io.Writer
}

// NewStepWriter returns a StepWriter printing to w.
func NewStepWriter(w io.Writer) *StepWriter {
	return &StepWriter{w: w}
}

// Send handles one progress message. Start messages print nothing; the
// line appears once the step has an outcome. Failures print nothing
// either, since the error itself surfaces through the command.
func (sw *StepWriter) Send(msg tea.Msg) {
	switch msg := msg.(type) {
	case StepDoneMsg:
		sw.line(msg.Step, msg.Detail)
	case StepSkipMsg:
		sw.line(msg.Step, msg.Detail)
	}
}

func (sw *StepWriter) line(step, detail string) {
	if detail == "" {
		fmt.Fprintln(sw.w, step)
		return
	}
	fmt.Fprintf(sw.w, "%s: %s\n", step, detail)
}
