package report

import "fmt"

// PreconditionError reports a pipeline step invoked before its prerequisite,
// such as naming an artifact before any summary table exists.
type PreconditionError struct {
	Step    string
	Missing string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s requires %s first", e.Step, e.Missing)
}
