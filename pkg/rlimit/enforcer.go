package rlimit

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SetFunc installs a resource limit, unix.Setrlimit by default
type SetFunc func(resource int, rlim *unix.Rlimit) error

// GetFunc reads a resource limit, unix.Getrlimit by default
type GetFunc func(resource int, rlim *unix.Rlimit) error

// Enforcer applies RLimits to the current process.
// The zero value uses the real syscalls.
type Enforcer struct {
	Setrlimit SetFunc
	Getrlimit GetFunc
}

// Constrained is the proof that a set of limits has been installed and read
// back from the kernel. It can only be obtained from Enforcer.Apply, and since
// every hard limit equals its soft limit the process cannot leave this state.
type Constrained struct {
	limits []RLimit
}

// ApplyError reports the limit the kernel rejected or did not honor.
// Applied lists the limits already installed before the failure.
type ApplyError struct {
	Limit   RLimit
	Applied []RLimit
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("rlimit: apply %v: %v", e.Limit, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

func (e Enforcer) set() SetFunc {
	if e.Setrlimit != nil {
		return e.Setrlimit
	}
	return unix.Setrlimit
}

func (e Enforcer) get() GetFunc {
	if e.Getrlimit != nil {
		return e.Getrlimit
	}
	return unix.Getrlimit
}

// Apply installs every limit in r in order and stops at the first rejection.
// Once all are installed they are read back; a mismatch is reported as an
// ApplyError as well. A nil error means the whole set is in force.
func (e Enforcer) Apply(r RLimits) (*Constrained, error) {
	rls := r.PrepareRLimit()
	set := e.set()
	for i, rl := range rls {
		rlim := rl.Rlim
		if err := set(rl.Res, &rlim); err != nil {
			return nil, &ApplyError{Limit: rl, Applied: rls[:i], Err: err}
		}
	}

	get := e.get()
	for _, rl := range rls {
		var cur unix.Rlimit
		if err := get(rl.Res, &cur); err != nil {
			return nil, &ApplyError{Limit: rl, Applied: rls, Err: fmt.Errorf("read back: %w", err)}
		}
		if cur != rl.Rlim {
			return nil, &ApplyError{
				Limit:   rl,
				Applied: rls,
				Err:     fmt.Errorf("read back %v, kernel reports %v", rl, RLimit{Res: rl.Res, Rlim: cur}),
			}
		}
	}
	return &Constrained{limits: rls}, nil
}

// Limits returns a copy of the installed limits
func (c *Constrained) Limits() []RLimit {
	return append([]RLimit(nil), c.limits...)
}

func (c *Constrained) String() string {
	return "Constrained" + formatRLimits(c.limits)
}

// Current reads the live soft and hard limit of a resource
func Current(res int) (RLimit, error) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(res, &rlim); err != nil {
		return RLimit{}, err
	}
	return RLimit{Res: res, Rlim: rlim}, nil
}
