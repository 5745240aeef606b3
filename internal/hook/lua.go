package hook

import (
	"context"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// LuaLimits bounds a scriptable tap's execution, ported from the teacher's
// stage-level Lua sandbox (internal/stage/lua_sandbox.go) down to the
// subset the hook bus needs: a tap has no instruction-limit heuristic
// because taps are not expected to loop over per-record input the way a
// map/reduce stage does, but the timeout still applies.
type LuaLimits struct {
	TimeoutMs int
}

// DefaultLuaLimits matches the teacher's sandbox defaults for the base
// libraries a tap is allowed: base, table, string, math.
func DefaultLuaLimits() LuaLimits {
	return LuaLimits{TimeoutMs: 50}
}

func newTapLuaState(limits LuaLimits) *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:    true,
		RegistrySize:    256,
		RegistryMaxSize: 4096,
	})
	open := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	open("base", lua.OpenBase)
	open("string", lua.OpenString)
	open("table", lua.OpenTable)
	open("math", lua.OpenMath)
	return L
}

// runLuaTap evaluates script with args bound as Lua globals named arg0,
// arg1, ... in declaration order, and returns the converted result of the
// script's sole return value. A script that throws, times out, or fails to
// compile returns a non-nil error; callers either drop it (TapLua) or hand
// it unwrapped to their onErr callback (TapLuaChecked).
func runLuaTap(name, script string, args []any, limits LuaLimits) (any, error) {
	L := newTapLuaState(limits)
	defer L.Close()

	if limits.TimeoutMs > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(limits.TimeoutMs)*time.Millisecond)
		defer cancel()
		L.SetContext(ctx)
	}

	for i, a := range args {
		L.SetGlobal(argName(i), toLValue(L, a))
	}

	fn, err := L.LoadString(script)
	if err != nil {
		return nil, err
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		if isTimeout(err) {
			return nil, &timeoutError{tap: name}
		}
		return nil, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return fromLValue(ret), nil
}

func argName(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "arg" + string(digits[i])
	}
	// taps rarely exceed 9 parameters; fall back to a decimal encoding.
	n := i
	var b []byte
	for n > 0 {
		b = append([]byte{digits[n%10]}, b...)
		n /= 10
	}
	return "arg" + string(b)
}

type timeoutError struct{ tap string }

func (e *timeoutError) Error() string { return "lua tap " + e.tap + ": sandbox timeout" }

func isTimeout(err error) bool {
	if err == context.DeadlineExceeded {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "deadline") ||
		strings.Contains(strings.ToLower(err.Error()), "context canceled")
}

// toLValue and fromLValue mirror the teacher's Lua<->Go value bridge
// (internal/stage/lua_filter_helpers.go, internal/stage/lua_map.go),
// narrowed to the JSON-shaped values hook parameters carry.
func toLValue(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(x)
	case bool:
		if x {
			return lua.LTrue
		}
		return lua.LFalse
	case int:
		return lua.LNumber(float64(x))
	case int64:
		return lua.LNumber(float64(x))
	case float64:
		return lua.LNumber(x)
	case map[string]any:
		tbl := L.NewTable()
		for k, v2 := range x {
			tbl.RawSetString(k, toLValue(L, v2))
		}
		return tbl
	case []string:
		tbl := L.NewTable()
		for i, v2 := range x {
			tbl.RawSetInt(i+1, lua.LString(v2))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for i, v2 := range x {
			tbl.RawSetInt(i+1, toLValue(L, v2))
		}
		return tbl
	default:
		return lua.LNil
	}
}

func fromLValue(v lua.LValue) any {
	switch x := v.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(x)
	case lua.LNumber:
		return float64(x)
	case lua.LString:
		return string(x)
	case *lua.LTable:
		// Treat a table with only positive integer keys 1..n as an array.
		n := x.Len()
		isArray := n > 0
		out := map[string]any{}
		arr := make([]any, 0, n)
		x.ForEach(func(k, val lua.LValue) {
			if isArray {
				if kn, ok := k.(lua.LNumber); ok && int(kn) >= 1 && int(kn) <= n {
					return
				}
				isArray = false
			}
			if ks, ok := k.(lua.LString); ok {
				out[string(ks)] = fromLValue(val)
			}
		})
		if isArray {
			for i := 1; i <= n; i++ {
				arr = append(arr, fromLValue(x.RawGetInt(i)))
			}
			return arr
		}
		return out
	default:
		return nil
	}
}
