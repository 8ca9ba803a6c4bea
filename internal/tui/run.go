package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunWithWork creates a bubbletea program, launches workFn in a goroutine,
// and blocks until the program has exited and workFn has returned. workFn
// receives a send callback that wraps tea.Program.Send with a small yield
// so the renderer gets a frame in between updates; without it, steps that
// finish instantly (cache hits) would never be seen in their running state.
func RunWithWork(out io.Writer, model StepModel, workFn func(send func(tea.Msg))) error {
	p := tea.NewProgram(model, tea.WithOutput(out))

	done := make(chan struct{})
	go func() {
		defer close(done)

		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)

		workFn(func(msg tea.Msg) {
			p.Send(msg)
			time.Sleep(25 * time.Millisecond)
		})

		p.Send(WorkDoneMsg{})
	}()

	finalModel, err := p.Run()

	// The program can quit before workFn returns (a failed step, ctrl+c).
	// Callers read state their workFn wrote, so wait for it to finish;
	// sends to a finished program are dropped.
	<-done

	if err != nil {
		return err
	}
	if m, ok := finalModel.(StepModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
