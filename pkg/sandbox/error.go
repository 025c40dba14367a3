package sandbox

import (
	"fmt"

	"github.com/evalbox/evalbox/runner"
)

// Error is the fatal outcome of a sandbox run. Stage is the last stage
// reached before the failure.
type Error struct {
	Status runner.Status
	Stage  Stage
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at %v: %v", e.Status, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
