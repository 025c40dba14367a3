//go:build linux

package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/evalbox/evalbox/pkg/logger"
	"github.com/evalbox/evalbox/pkg/request"
	"github.com/evalbox/evalbox/pkg/rlimit"
	"github.com/evalbox/evalbox/pkg/sandbox"
	"github.com/evalbox/evalbox/runner"
)

// The test binary doubles as the sandbox process
const helperEnv = "EVALBOX_LAUNCHER_HELPER"

func TestMain(m *testing.M) {
	switch os.Getenv(helperEnv) {
	case "sandbox":
		os.Exit(sandbox.Main(os.Stdin, logger.Sandbox()))
	case "malformed":
		os.Exit(sandbox.Main(strings.NewReader(`{"code":`), logger.Sandbox()))
	case "signal":
		unix.Kill(os.Getpid(), unix.SIGKILL)
		select {}
	}
	os.Exit(m.Run())
}

func testLauncher(t *testing.T, mode string, limit runner.Limit) *Launcher {
	t.Helper()
	c, err := Self()
	require.NoError(t, err)
	c.Env = []string{helperEnv + "=" + mode}
	c.Limit = limit
	return New(c)
}

// unconstrained requests the current hard limits, which needs no privilege
func unconstrained(t *testing.T, code string, lang request.Language) request.Request {
	t.Helper()
	as, err := rlimit.Current(unix.RLIMIT_AS)
	require.NoError(t, err)
	nproc, err := rlimit.Current(unix.RLIMIT_NPROC)
	require.NoError(t, err)
	return request.New(code, int64(nproc.Rlim.Max), int64(as.Rlim.Max), lang)
}

func defaultLimit() runner.Limit {
	return runner.Limit{TimeLimit: 30 * time.Second, OutputLimit: 1024}
}

func TestRunNormal(t *testing.T) {
	l := testLauncher(t, "sandbox", defaultLimit())
	r, err := l.Run(context.Background(), unconstrained(t, "console.log(1+1)", ""))
	require.NoError(t, err)
	assert.Equal(t, runner.StatusNormal, r.Status, string(r.Stderr))
	assert.Equal(t, 0, r.ExitStatus)
	assert.Equal(t, "2\n", string(r.Stdout))
	assert.Empty(t, r.Stderr)
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.Killed())
}

func TestRunTimeout(t *testing.T) {
	l := testLauncher(t, "sandbox", runner.Limit{TimeLimit: 500 * time.Millisecond, OutputLimit: 1024})
	start := time.Now()
	r, err := l.Run(context.Background(), unconstrained(t, "while(true){}", ""))
	require.NoError(t, err)
	assert.Equal(t, runner.StatusTimeLimitExceeded, r.Status)
	assert.Equal(t, int(unix.SIGKILL), r.ExitStatus)
	assert.True(t, r.Killed())
	assert.Less(t, time.Since(start), 20*time.Second)
}

func TestRunContextCanceled(t *testing.T) {
	l := testLauncher(t, "sandbox", runner.Limit{OutputLimit: 1024})
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	r, err := l.Run(ctx, unconstrained(t, "while(true){}", ""))
	require.NoError(t, err)
	assert.Equal(t, runner.StatusTimeLimitExceeded, r.Status)
}

func TestRunOutputTruncated(t *testing.T) {
	l := testLauncher(t, "sandbox", runner.Limit{TimeLimit: 30 * time.Second, OutputLimit: 16})
	r, err := l.Run(context.Background(), unconstrained(t, `console.log("x".repeat(100000))`, ""))
	require.NoError(t, err)
	assert.Equal(t, runner.StatusNormal, r.Status)
	assert.Equal(t, strings.Repeat("x", 16), string(r.Stdout))
	assert.True(t, r.StdoutTruncated)
	assert.False(t, r.StderrTruncated)
}

func TestRunSandboxFaults(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		req    request.Request
		status runner.Status
		exit   int
	}{
		{
			name:   "Malformed",
			mode:   "malformed",
			req:    request.New("1", 1, 1, ""),
			status: runner.StatusMalformedRequest,
			exit:   runner.ExitMalformedRequest,
		},
		{
			name:   "Execution",
			req:    unconstrained(t, `throw new Error("boom")`, ""),
			status: runner.StatusExecutionFault,
			exit:   runner.ExitExecutionFault,
		},
		{
			name:   "Lua",
			req:    unconstrained(t, `error("boom")`, request.Lua),
			status: runner.StatusExecutionFault,
			exit:   runner.ExitExecutionFault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode := tt.mode
			if mode == "" {
				mode = "sandbox"
			}
			l := testLauncher(t, mode, defaultLimit())
			r, err := l.Run(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, r.Status)
			assert.Equal(t, tt.exit, r.ExitStatus)
			assert.Empty(t, r.Stdout)
			assert.Contains(t, string(r.Stderr), tt.status.String())
		})
	}
}

func TestRunDetachedDescendant(t *testing.T) {
	setsid, err := exec.LookPath("setsid")
	if err != nil {
		t.Skip("setsid not available")
	}
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	l := testLauncher(t, "sandbox", runner.Limit{TimeLimit: time.Second, OutputLimit: 1024})
	code := fmt.Sprintf(`os.execute("%s %s 8 &")`, setsid, sleep)
	start := time.Now()
	r, err := l.Run(context.Background(), unconstrained(t, code, request.Lua))
	require.NoError(t, err)
	assert.Equal(t, runner.StatusNormal, r.Status, string(r.Stderr))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunSignalled(t *testing.T) {
	l := testLauncher(t, "signal", defaultLimit())
	r, err := l.Run(context.Background(), request.New("", 1, 1, ""))
	require.NoError(t, err)
	assert.Equal(t, runner.StatusSignalled, r.Status)
	assert.Equal(t, int(unix.SIGKILL), r.ExitStatus)
	assert.True(t, r.Killed())
}

func TestRunStartFailure(t *testing.T) {
	l := New(Config{Path: "/nonexistent/evalbox-init", Limit: defaultLimit()})
	r, err := l.Run(context.Background(), request.New("1", 1, 1, ""))
	require.Error(t, err)
	assert.Equal(t, runner.StatusRunnerError, r.Status)
	assert.NotEmpty(t, r.Error)
}
