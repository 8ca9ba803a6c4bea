package tui

// StepStartMsg marks a step as running. Detail says what the step is
// working on.
type StepStartMsg struct {
	Step   string
	Detail string
}

// StepDoneMsg marks a step as finished.
type StepDoneMsg struct {
	Step   string
	Detail string
}

// StepSkipMsg marks a step that finished without doing its usual work.
type StepSkipMsg struct {
	Step   string
	Detail string
}

// StepFailMsg marks a step as failed and stops the program; the error is
// returned from RunWithWork.
type StepFailMsg struct {
	Step string
	Err  error
}

// WorkDoneMsg signals that all background work has completed.
type WorkDoneMsg struct{}
