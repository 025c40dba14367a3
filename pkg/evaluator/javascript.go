package evaluator

import (
	"fmt"
	"io"
	"strings"

	"github.com/dop251/goja"

	"github.com/evalbox/evalbox/pkg/request"
)

type jsEvaluator struct {
	vm        *goja.Runtime
	stringify goja.Callable
}

func newJS(opt Options) *jsEvaluator {
	vm := goja.New()
	e := &jsEvaluator{vm: vm}
	if fn, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("stringify")); ok {
		e.stringify = fn
	}

	console := vm.NewObject()
	out, errOut := e.printer(opt.Stdout), e.printer(opt.Stderr)
	for name, fn := range map[string]func(goja.FunctionCall) goja.Value{
		"log":   out,
		"info":  out,
		"debug": out,
		"warn":  errOut,
		"error": errOut,
	} {
		_ = console.Set(name, fn)
	}
	_ = vm.Set("console", console)
	return e
}

func (e *jsEvaluator) printer(w io.Writer) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = e.format(arg)
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
		return goja.Undefined()
	}
}

// format prints objects as JSON and everything else by string conversion
func (e *jsEvaluator) format(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if _, ok := v.(*goja.Object); ok && e.stringify != nil {
		if s, err := e.stringify(goja.Undefined(), v); err == nil && !goja.IsUndefined(s) {
			return s.String()
		}
	}
	return v.String()
}

func (e *jsEvaluator) Evaluate(code string) (Value, error) {
	v, err := e.vm.RunString(code)
	if err != nil {
		return nil, &Fault{Language: request.JavaScript, Err: err}
	}
	if v == nil {
		return nil, nil
	}
	return v.Export(), nil
}

func (e *jsEvaluator) Close() error {
	return nil
}
