package runner

import (
	"fmt"
	"time"
)

// Limit represents the budget enforced by the launcher on a sandbox process
type Limit struct {
	TimeLimit   time.Duration // wall clock time limit (in ns)
	OutputLimit Size          // captured bytes per output stream
}

func (l Limit) String() string {
	return fmt.Sprintf("Limit[Time=%v, Output=%v]", l.TimeLimit, l.OutputLimit)
}
