// Package sandbox implements the single-shot sandbox process: read one
// request, constrain the process, execute the code.
package sandbox

import (
	"io"

	"go.uber.org/zap"

	"github.com/evalbox/evalbox/pkg/evaluator"
	"github.com/evalbox/evalbox/pkg/request"
	"github.com/evalbox/evalbox/pkg/rlimit"
	"github.com/evalbox/evalbox/runner"
)

// Sandbox runs Reader -> Enforcer -> Executor once. A Sandbox must not be reused.
type Sandbox struct {
	Enforcer     rlimit.Enforcer
	NewEvaluator NewEvaluatorFunc // evaluator.New if nil

	// Output of the evaluated code, process stdout / stderr if nil
	Stdout io.Writer
	Stderr io.Writer

	Logger *zap.Logger

	stage Stage
}

// Stage returns the current stage
func (s *Sandbox) Stage() Stage {
	return s.stage
}

func (s *Sandbox) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Sandbox) advance(next Stage) {
	if next <= s.stage || s.stage.Terminal() {
		panic("sandbox: invalid transition " + s.stage.String() + " -> " + next.String())
	}
	s.logger().Debug("stage", zap.Stringer("from", s.stage), zap.Stringer("to", next))
	s.stage = next
}

func (s *Sandbox) fail(status runner.Status, err error) error {
	last := s.stage
	s.advance(StageFailed)
	return &Error{Status: status, Stage: last, Err: err}
}

// Run reads the request from in, applies its limits and executes its code.
// Any returned error is fatal for the process and is an *Error.
func (s *Sandbox) Run(in io.Reader) error {
	log := s.logger()

	s.advance(StageReading)
	req, err := request.Read(in)
	if err != nil {
		return s.fail(runner.StatusMalformedRequest, err)
	}
	s.advance(StageParsed)
	log.Debug("request decoded", zap.Stringer("request", req))

	c, err := s.Enforcer.Apply(req.RLimits())
	if err != nil {
		return s.fail(runner.StatusLimitApplicationFailure, err)
	}
	s.advance(StageLimited)
	log.Debug("limits installed", zap.Stringer("limits", c))

	s.advance(StageExecuting)
	v, err := ExecuteUntrusted(c, s.NewEvaluator, req, evaluator.Options{Stdout: s.Stdout, Stderr: s.Stderr}, log)
	if err != nil {
		return s.fail(runner.StatusExecutionFault, err)
	}
	s.advance(StageDone)
	log.Debug("execution finished", zap.Any("value", v))
	return nil
}
