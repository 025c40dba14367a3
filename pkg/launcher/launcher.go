// Package launcher spawns a fresh sandbox process for one request, the way the
// caller of a single-shot sandbox does: send the request, close stdin, wait with
// a deadline and keep a bounded amount of output.
package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/evalbox/evalbox/pkg/pipe"
	"github.com/evalbox/evalbox/pkg/request"
	"github.com/evalbox/evalbox/runner"
)

// Config defines how the sandbox process is started
type Config struct {
	// Path and Args of the sandbox binary, Args excludes argv[0]
	Path string
	Args []string
	// Env of the sandbox process, empty environment if nil
	Env []string

	Limit runner.Limit

	Logger *zap.Logger
}

// outputGrace bounds how long output is collected after the sandbox is gone
const outputGrace = 500 * time.Millisecond

// Launcher starts one sandbox process per Run
type Launcher struct {
	Config
}

// New creates a Launcher
func New(c Config) *Launcher {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return &Launcher{Config: c}
}

// Run executes req in a new sandbox process. The returned error is only set
// when the process could not be started; every outcome of a started process,
// including being killed, is described by the Result.
func (l *Launcher) Run(ctx context.Context, req request.Request) (runner.Result, error) {
	id := uuid.NewString()
	log := l.Logger.With(zap.String("run", id))
	result := runner.Result{ID: id}

	payload, err := req.MarshalJSON()
	if err != nil {
		return l.runnerError(result, err)
	}

	stdout, err := pipe.NewBuffer(int64(l.Limit.OutputLimit))
	if err != nil {
		return l.runnerError(result, err)
	}
	stderr, err := pipe.NewBuffer(int64(l.Limit.OutputLimit))
	if err != nil {
		stdout.W.Close()
		return l.runnerError(result, err)
	}

	cmd := exec.Command(l.Path, l.Args...)
	cmd.Env = l.Env
	if cmd.Env == nil {
		cmd.Env = []string{}
	}
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = stdout.W
	cmd.Stderr = stderr.W
	cmd.SysProcAttr = sysProcAttr()
	cmd.WaitDelay = outputGrace

	start := time.Now()
	err = cmd.Start()
	// the child holds its own copies of the write ends
	stdout.W.Close()
	stderr.W.Close()
	if err != nil {
		return l.runnerError(result, err)
	}
	log.Debug("sandbox started", zap.Int("pid", cmd.Process.Pid), zap.Stringer("request", req), zap.Stringer("limit", l.Limit))

	if l.Limit.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Limit.TimeLimit)
		defer cancel()
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	var killed bool
	select {
	case err = <-waitErr:
	case <-ctx.Done():
		killed = true
		killAll(cmd.Process.Pid)
		err = <-waitErr
	}
	result.RunningTime = time.Since(start)
	// kill all descendants still holding the pipes upon return
	killAll(cmd.Process.Pid)
	collect(stdout, "stdout", log)
	collect(stderr, "stderr", log)

	result.Stdout, result.StdoutTruncated = stdout.Bytes(), stdout.Truncated()
	result.Stderr, result.StderrTruncated = stderr.Bytes(), stderr.Truncated()
	collectUsage(&result, cmd.ProcessState)

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// stdin copy failure, the child exited before reading the request
		log.Warn("wait", zap.Error(err))
	}

	ws, _ := cmd.ProcessState.Sys().(syscall.WaitStatus)
	switch {
	case killed:
		result.Status = runner.StatusTimeLimitExceeded
		result.ExitStatus = -1
		if ws.Signaled() {
			result.ExitStatus = int(ws.Signal())
		}
	case ws.Signaled():
		result.Status = runner.StatusSignalled
		result.ExitStatus = int(ws.Signal())
	default:
		result.ExitStatus = cmd.ProcessState.ExitCode()
		result.Status = runner.StatusFromExitCode(result.ExitStatus)
	}
	log.Debug("sandbox finished", zap.Stringer("result", result))
	return result, nil
}

// collect waits for the writers of b to finish. A descendant that left the
// process group may hold the pipe open; after outputGrace its output is cut off.
func collect(b *pipe.Buffer, name string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), outputGrace)
	defer cancel()
	if err := b.Wait(ctx); err != nil {
		log.Warn("output still open after exit", zap.String("stream", name))
		b.Close()
	}
}

func (l *Launcher) runnerError(r runner.Result, err error) (runner.Result, error) {
	r.Status = runner.StatusRunnerError
	r.Error = err.Error()
	return r, fmt.Errorf("launcher: %w", err)
}

// killAll kills the process group of the sandbox
func killAll(pgid int) {
	unix.Kill(-pgid, unix.SIGKILL)
}

// Self returns a Config that re-executes the current binary with args
func Self(args ...string) (Config, error) {
	exe, err := os.Executable()
	if err != nil {
		return Config{}, err
	}
	return Config{Path: exe, Args: args}, nil
}
