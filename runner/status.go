package runner

// Status is the result Status
type Status int

// Result Status for a sandbox run
const (
	StatusInvalid Status = iota // 0 not initialized
	// Normal
	StatusNormal // 1 normal

	// Sandbox Fault
	StatusMalformedRequest        // 2 request not decoded
	StatusLimitApplicationFailure // 3 setrlimit rejected
	StatusExecutionFault          // 4 code raised an error

	// Observed by the launcher
	StatusTimeLimitExceeded // 5 tle
	StatusSignalled         // 6 signalled
	StatusNonzeroExitStatus // 7 nonzero exit status

	// Runner Error
	StatusRunnerError // 8 runner error
)

// Exit codes used by the sandbox process
const (
	ExitNormal                  = 0
	ExitExecutionFault          = 1
	ExitMalformedRequest        = 65 // EX_DATAERR
	ExitLimitApplicationFailure = 71 // EX_OSERR
)

var (
	statusString = []string{
		"Invalid",
		"",
		"Malformed Request",
		"Limit Application Failure",
		"Execution Fault",
		"Time Limit Exceeded",
		"Signalled",
		"Nonzero Exit Status",
		"Runner Error",
	}
)

func (t Status) String() string {
	i := int(t)
	if i >= 0 && i < len(statusString) {
		return statusString[i]
	}
	return statusString[0]
}

func (t Status) Error() string {
	return t.String()
}

// ExitCode returns the exit code the sandbox process terminates with for
// the status. Statuses only the launcher can observe map to -1.
func (t Status) ExitCode() int {
	switch t {
	case StatusNormal:
		return ExitNormal
	case StatusMalformedRequest:
		return ExitMalformedRequest
	case StatusLimitApplicationFailure:
		return ExitLimitApplicationFailure
	case StatusExecutionFault:
		return ExitExecutionFault
	default:
		return -1
	}
}

// StatusFromExitCode maps the exit code of a sandbox process back to its status
func StatusFromExitCode(code int) Status {
	switch code {
	case ExitNormal:
		return StatusNormal
	case ExitMalformedRequest:
		return StatusMalformedRequest
	case ExitLimitApplicationFailure:
		return StatusLimitApplicationFailure
	case ExitExecutionFault:
		return StatusExecutionFault
	default:
		return StatusNonzeroExitStatus
	}
}
