package main

import (
	"fmt"
	"strings"

	"github.com/evalbox/evalbox/runner"
)

// formatResult renders a run for humans: exit code line, then stdout and stderr
func formatResult(r runner.Result) string {
	var sb strings.Builder
	switch r.Status {
	case runner.StatusTimeLimitExceeded:
		fmt.Fprintf(&sb, "exit code: %d (timeout)\n", r.ExitStatus)
	case runner.StatusSignalled:
		fmt.Fprintf(&sb, "exit code: %d (signalled)\n", r.ExitStatus)
	case runner.StatusNormal:
		fmt.Fprintf(&sb, "exit code: %d\n", r.ExitStatus)
	default:
		fmt.Fprintf(&sb, "exit code: %d (%v)\n", r.ExitStatus, r.Status)
	}
	writeStream(&sb, "stdout", r.Stdout, r.StdoutTruncated)
	writeStream(&sb, "stderr", r.Stderr, r.StderrTruncated)
	return sb.String()
}

func writeStream(sb *strings.Builder, name string, b []byte, truncated bool) {
	s := strings.ToValidUTF8(string(b), "")
	note := ""
	if truncated {
		note = " (truncated)"
	}
	switch {
	case s == "":
		fmt.Fprintf(sb, "%s: (empty)\n", name)
	case strings.HasSuffix(s, "\n"):
		fmt.Fprintf(sb, "%s:%s\n%s", name, note, s)
	default:
		fmt.Fprintf(sb, "%s: (no trailing newline)%s\n%s\n", name, note, s)
	}
}
