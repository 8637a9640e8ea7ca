package pipeline

import "fmt"

// Stage names a step of a run.
type Stage string

const (
	StageRequest   Stage = "request"
	StageRead      Stage = "read"
	StageOutputDir Stage = "mkdir"
	StageReport    Stage = "report"
	StageSummary   Stage = "summary"
)

// StageError is a run failure tagged with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
