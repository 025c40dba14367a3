// Package rlimit provides data structure for resource limits by setrlimit syscall
// and applies them to the current process.
package rlimit

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/evalbox/evalbox/runner"
)

// RLimits defines the rlimit applied by setrlimit syscall to the sandbox process.
// Both values are applied as soft == hard, zero and negative included.
type RLimits struct {
	AddressSpace int64 // in bytes
	Process      int64 // number of processes / threads of the user
}

// RLimit is the resource limits defined by Linux setrlimit
type RLimit struct {
	// Res is the resource type (e.g. unix.RLIMIT_AS)
	Res int
	// Rlim is the limit applied to that resource
	Rlim unix.Rlimit
}

// getRlimit converts the requested value to rlim_t. A negative value keeps
// its two's complement bit pattern so the kernel decides what it means.
func getRlimit(v int64) unix.Rlimit {
	return unix.Rlimit{Cur: uint64(v), Max: uint64(v)}
}

// PrepareRLimit creates rlimit structures for the sandbox process,
// address space first and process count second
func (r RLimits) PrepareRLimit() []RLimit {
	return []RLimit{
		{
			Res:  unix.RLIMIT_AS,
			Rlim: getRlimit(r.AddressSpace),
		},
		{
			Res:  unix.RLIMIT_NPROC,
			Rlim: getRlimit(r.Process),
		},
	}
}

func resourceName(res int) string {
	switch res {
	case unix.RLIMIT_AS:
		return "AddressSpace"
	case unix.RLIMIT_NPROC:
		return "Process"
	default:
		return fmt.Sprintf("Resource(%d)", res)
	}
}

func (r RLimit) String() string {
	t := resourceName(r.Res)
	if r.Res == unix.RLIMIT_AS {
		return fmt.Sprintf("%s[%v:%v]", t, runner.Size(r.Rlim.Cur), runner.Size(r.Rlim.Max))
	}
	return fmt.Sprintf("%s[%d:%d]", t, r.Rlim.Cur, r.Rlim.Max)
}

func (r RLimits) String() string {
	return formatRLimits(r.PrepareRLimit())
}

func formatRLimits(rls []RLimit) string {
	var sb strings.Builder
	sb.WriteString("RLimits[")
	for i, rl := range rls {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(rl.String())
	}
	sb.WriteString("]")
	return sb.String()
}
