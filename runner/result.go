package runner

import (
	"fmt"
	"time"
)

// Result is the sandbox run result as observed by the launcher
type Result struct {
	Status            // result status
	ExitStatus int    // exit status (signal number if signalled)
	Error      string // potential detailed error message (for runner error)
	ID         string // run id assigned by the launcher

	Stdout          []byte // captured stdout, at most OutputLimit bytes
	Stderr          []byte // captured stderr, at most OutputLimit bytes
	StdoutTruncated bool
	StderrTruncated bool

	Time   time.Duration // used user CPU time  (underlying type int64 in ns)
	Memory Size          // max resident memory (underlying type uint64 in bytes)

	// wall clock time between start and exit
	RunningTime time.Duration
}

// Killed reports whether the sandbox was terminated from outside, either
// by the launcher deadline or by a signal such as SIGKILL
func (r Result) Killed() bool {
	return r.Status == StatusTimeLimitExceeded || r.Status == StatusSignalled
}

func (r Result) String() string {
	switch r.Status {
	case StatusNormal:
		return fmt.Sprintf("Result[%v %v][%v]", r.Time, r.Memory, r.RunningTime)

	case StatusSignalled:
		return fmt.Sprintf("Result[Signalled(%d)][%v %v][%v]", r.ExitStatus, r.Time, r.Memory, r.RunningTime)

	case StatusRunnerError:
		return fmt.Sprintf("Result[RunnerFailed(%s)][%v %v][%v]", r.Error, r.Time, r.Memory, r.RunningTime)

	default:
		return fmt.Sprintf("Result[%v(%s %d)][%v %v][%v]", r.Status, r.Error, r.ExitStatus, r.Time, r.Memory, r.RunningTime)
	}
}
