package sandbox

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/evalbox/evalbox/runner"
)

// Main runs a default sandbox on in and returns the process exit code.
// It is the whole body of a sandbox binary.
func Main(in io.Reader, log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}
	defer log.Sync()

	s := &Sandbox{Logger: log}
	return exitCode(s.Run(in), log)
}

func exitCode(err error, log *zap.Logger) int {
	if err == nil {
		return runner.ExitNormal
	}
	var se *Error
	if !errors.As(err, &se) {
		log.Error("sandbox failed", zap.Error(err))
		return runner.ExitExecutionFault
	}
	log.Error(se.Status.String(), zap.Stringer("stage", se.Stage), zap.Error(se.Err))
	return se.Status.ExitCode()
}
