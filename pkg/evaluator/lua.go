package evaluator

import (
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/evalbox/evalbox/pkg/request"
)

type luaEvaluator struct {
	state *lua.LState
}

func newLua(opt Options) *luaEvaluator {
	L := lua.NewState()
	L.SetGlobal("print", L.NewFunction(luaPrint(opt.Stdout)))
	return &luaEvaluator{state: L}
}

func luaPrint(w io.Writer) lua.LGFunction {
	return func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, top)
		for i := 1; i <= top; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		fmt.Fprintln(w, strings.Join(parts, "\t"))
		return 0
	}
}

func (e *luaEvaluator) Evaluate(code string) (Value, error) {
	L := e.state
	fn, err := L.LoadString(code)
	if err != nil {
		return nil, &Fault{Language: request.Lua, Err: err}
	}
	base := L.GetTop()
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, &Fault{Language: request.Lua, Err: err}
	}
	if L.GetTop() == base {
		return nil, nil
	}
	ret := L.Get(-1)
	L.SetTop(base)
	return fromLua(ret), nil
}

func fromLua(v lua.LValue) Value {
	switch v := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	default:
		return v.String()
	}
}

func (e *luaEvaluator) Close() error {
	e.state.Close()
	return nil
}
