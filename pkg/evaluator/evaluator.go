// Package evaluator runs untrusted code inside an embedded interpreter.
//
// An Evaluator executes with the ambient privileges of the current process;
// the only confinement is what the caller installed beforehand.
package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/evalbox/evalbox/pkg/request"
)

// Value is the completion value of the evaluated code, converted to Go
type Value = interface{}

// Evaluator evaluates one program
type Evaluator interface {
	Evaluate(code string) (Value, error)
	Close() error
}

// Options configures where the program output goes
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) withDefaults() Options {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}

// Fault is an error raised by the evaluated code
type Fault struct {
	Language request.Language
	Err      error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %v", f.Language, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// New creates the interpreter for lang
func New(lang request.Language, opt Options) (Evaluator, error) {
	opt = opt.withDefaults()
	switch lang {
	case request.JavaScript:
		return newJS(opt), nil
	case request.Lua:
		return newLua(opt), nil
	default:
		return nil, fmt.Errorf("evaluator: unsupported language %q", lang)
	}
}
