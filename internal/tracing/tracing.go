package tracing

import "time"

// Run is a single traced question/answer interaction.
type Run struct {
	ID       string
	Name     string
	Input    string
	StartsAt time.Time
}

// Tracer records question/answer runs with an external tracing provider.
// Tracing is best-effort: implementations must never let an export failure
// affect the answer path.
type Tracer interface {
	StartRun(name, input string) *Run
	EndRun(run *Run, output string, err error)
}

// Noop is the tracer used when tracing is disabled.
type Noop struct{}

func (Noop) StartRun(name, input string) *Run { return &Run{Name: name, Input: input} }

func (Noop) EndRun(*Run, string, error) {}
