//go:build unix && !linux

package launcher

import (
	"os"
	"syscall"

	"github.com/evalbox/evalbox/runner"
)

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func collectUsage(r *runner.Result, ps *os.ProcessState) {
	if ps == nil {
		return
	}
	r.Time = ps.UserTime()
}
