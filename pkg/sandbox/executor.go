package sandbox

import (
	"errors"

	"go.uber.org/zap"

	"github.com/evalbox/evalbox/pkg/evaluator"
	"github.com/evalbox/evalbox/pkg/request"
	"github.com/evalbox/evalbox/pkg/rlimit"
)

// NewEvaluatorFunc creates the interpreter for a language
type NewEvaluatorFunc func(lang request.Language, opt evaluator.Options) (evaluator.Evaluator, error)

var errUnconstrained = errors.New("sandbox: refusing to execute without installed limits")

// ExecuteUntrusted is the trust boundary. It runs req's code exactly once in a
// fresh interpreter, and only when handed the proof that limits are installed.
// The interpreter is created after the limits so its own allocations count.
// A failure to close the interpreter is logged to log and does not change the result.
func ExecuteUntrusted(c *rlimit.Constrained, newEval NewEvaluatorFunc, req request.Request, opt evaluator.Options, log *zap.Logger) (evaluator.Value, error) {
	if c == nil {
		return nil, errUnconstrained
	}
	if newEval == nil {
		newEval = evaluator.New
	}
	if log == nil {
		log = zap.NewNop()
	}
	ev, err := newEval(req.Language(), opt)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ev.Close(); err != nil {
			log.Warn("close evaluator", zap.String("language", string(req.Language())), zap.Error(err))
		}
	}()
	return ev.Evaluate(req.Code())
}
