// Package runner provides the common types shared by the sandbox process
// and the launcher that spawns it, including Result, Limit, Size and Status.
//
// # Status
//
// Status defines the outcome of one sandbox run including
//
//	Normal
//	Sandbox Fault
//	    Malformed Request
//	    Limit Application Failure
//	    Execution Fault
//	Observed by the launcher
//	    Time Limit Exceeded
//	    Runtime Error (Signalled / Nonzero Exit Status)
//	Runner Error
//
// Every Status maps to a process exit code so the single-shot sandbox can
// report its outcome through termination semantics alone.
//
// # Size
//
// Size defines size in bytes, underlying type is uint64 so it
// is effective to store up to EiB of size
//
// # Limit
//
// Limit defines the wall time & output restriction the launcher enforces
// from outside the sandbox
//
// # Result
//
// Result defines one run as observed by the launcher including
// Status, ExitStatus, captured output, Time, Memory and RunningTime
package runner
