package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"duckup/internal/toolchain"
	"duckup/internal/tui"
)

// Steps the commands report around the toolchain's own bootstrap steps.
const (
	stepResolve  = "resolve"
	stepInstall  = "install"
	stepActivate = "activate"
)

var bootstrapSteps = []string{
	toolchain.StepSource,
	toolchain.StepRuntime,
	toolchain.StepStage,
	toolchain.StepStd,
}

// stepSender adapts toolchain step callbacks to progress messages and
// remembers the most recently started step so a failure can be pinned to
// it.
type stepSender struct {
	send func(tea.Msg)
	last string
}

func (s *stepSender) StepStart(step, detail string) {
	s.last = step
	s.send(tui.StepStartMsg{Step: step, Detail: detail})
}

func (s *stepSender) StepDone(step, detail string) {
	s.send(tui.StepDoneMsg{Step: step, Detail: detail})
}

func (s *stepSender) StepSkip(step, detail string) {
	s.send(tui.StepSkipMsg{Step: step, Detail: detail})
}

// Fail marks the most recently started step as failed.
func (s *stepSender) Fail(err error) {
	s.send(tui.StepFailMsg{Step: s.last, Err: err})
}

// runSteps executes work with progress rendering picked by mode: a live
// step table when interactive, a line per finished step otherwise, and
// nothing at all for JSON output. work reports failures both through
// StepFailMsg and its return value; in TUI mode the error reaches the
// caller through the model.
func runSteps(out io.Writer, mode tui.OutputMode, steps []string, work func(send func(tea.Msg)) error) error {
	switch mode {
	case tui.ModeTUI:
		return tui.RunWithWork(out, tui.NewStepModel(steps), func(send func(tea.Msg)) {
			_ = work(send)
		})
	case tui.ModeJSON:
		return work(func(tea.Msg) {})
	default:
		sw := tui.NewStepWriter(out)
		return work(sw.Send)
	}
}
