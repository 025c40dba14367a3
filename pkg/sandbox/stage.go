package sandbox

// Stage is the whole-process state of a sandbox. Transitions only move forward.
type Stage int

// Sandbox stages
const (
	StageStart Stage = iota
	StageReading
	StageParsed
	StageLimited
	StageExecuting
	StageDone
	// StageKilled is never entered by the sandbox itself: a process killed by
	// the kernel cannot report it. The launcher derives it from the wait status.
	StageKilled
	StageFailed
)

var stageString = []string{
	"Start",
	"Reading",
	"Parsed",
	"Limited",
	"Executing",
	"Done",
	"Killed",
	"Failed",
}

func (s Stage) String() string {
	i := int(s)
	if i >= 0 && i < len(stageString) {
		return stageString[i]
	}
	return "Unknown"
}

// Terminal reports whether no further transition is possible
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageKilled || s == StageFailed
}
