package launcher

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/evalbox/evalbox/runner"
)

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: unix.SIGKILL,
	}
}

func collectUsage(r *runner.Result, ps *os.ProcessState) {
	if ps == nil {
		return
	}
	if ru, ok := ps.SysUsage().(*syscall.Rusage); ok {
		r.Time = time.Duration(ru.Utime.Nano())
		r.Memory = runner.Size(ru.Maxrss << 10) // kb
	}
}
