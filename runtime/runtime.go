package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dyon-lang/dyon/value"
)

// TINVOTS is the canonical diagnostic for a missing operand on the value
// stack (spec.md 6): "There is no value on the stack".
const TINVOTS = "There is no value on the stack"

// Runtime is the evaluator façade: the addressable value stack and call
// stack that externals and intrinsics are handed, plus the entry points
// embedding code calls through (Call, via the embed package) and the
// tree-walking evaluator itself (eval.go).
type Runtime struct {
	Stack     value.Stack
	CallStack []Frame
}

// NewRuntime returns a Runtime with an empty stack and a single host-level
// frame, matching lib.rs's Runtime::new().
func NewRuntime() *Runtime {
	return &Runtime{CallStack: []Frame{{FuncIndex: -1}}}
}

// Resolve dereferences a single level of reference cell by indexing the
// stack; a non-Ref value is returned unchanged.
func (rt *Runtime) Resolve(v value.Value) value.Value {
	if ref, ok := v.(value.Ref); ok {
		return rt.Stack[ref.Index]
	}
	return v
}

// Expected formats a type-mismatch diagnostic: what was wanted, and what
// the value's actual kind was.
func (rt *Runtime) Expected(v value.Value, typeName string) string {
	return fmt.Sprintf("expected %s, got %s", typeName, rt.Resolve(v).Kind())
}

// StackTrace renders the current call stack as a human-readable trace,
// one function index per line, most recent first.
func (rt *Runtime) StackTrace() string {
	var b strings.Builder
	for i := len(rt.CallStack) - 1; i >= 0; i-- {
		if i != len(rt.CallStack)-1 {
			b.WriteByte('\n')
		}
		f := rt.CallStack[i]
		if f.FuncIndex < 0 {
			b.WriteString("<host>")
		} else {
			fmt.Fprintf(&b, "function#%d", f.FuncIndex)
		}
	}
	return b.String()
}

// pushArg pushes a resolved argument value onto the stack, for externals
// and intrinsics to read back off the top.
func (rt *Runtime) pushArg(v value.Value) {
	rt.Stack = append(rt.Stack, v)
}

// PopArg pops the top of the stack, failing with TINVOTS if empty. This is
// the primitive every intrinsic/external uses to read its operands.
func (rt *Runtime) PopArg() (value.Value, error) {
	if len(rt.Stack) == 0 {
		return nil, errors.New(TINVOTS)
	}
	v := rt.Stack[len(rt.Stack)-1]
	rt.Stack = rt.Stack[:len(rt.Stack)-1]
	return rt.Resolve(v), nil
}

// PushResult pushes an intrinsic/external's single return value.
func (rt *Runtime) PushResult(v value.Value) {
	rt.Stack = append(rt.Stack, v)
}

// CallStr invokes name with args and discards any return value, per
// spec.md 4.4's `run`.
func (rt *Runtime) CallStr(name string, args []value.Value, module *Module) error {
	_, err := rt.call(name, args, module)
	return err
}

// CallStrRet invokes name with args and returns its value, per
// spec.md 4.4's `run_ret`/`run_vec4` (which further resolve and
// unmarshal it).
func (rt *Runtime) CallStrRet(name string, args []value.Value, module *Module) (value.Value, error) {
	v, err := rt.call(name, args, module)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%s did not return a value", name)
	}
	return v, nil
}

// call resolves name at the host boundary (relative 0) and dispatches to
// the matching loaded function, external, or intrinsic.
func (rt *Runtime) call(name string, args []value.Value, module *Module) (value.Value, error) {
	fi := module.FindFunction(name, 0)
	return rt.invoke(fi, 0, args, module)
}

// invoke dispatches a resolved FnIndex. relative is the caller's own
// function-table position (or 0 for a host-boundary call), needed to turn
// FnLoaded's signed offset back into an absolute function index.
func (rt *Runtime) invoke(fi FnIndex, relative int, args []value.Value, module *Module) (value.Value, error) {
	switch fi.Kind {
	case FnNone:
		return nil, fmt.Errorf("no such function")
	case FnIntrinsic:
		return rt.callIntrinsic(fi.Intrinsic, args, module)
	case FnLoaded:
		return rt.callLoaded(fi.Loaded+relative, args, module)
	case FnExternalVoid:
		for _, a := range args {
			rt.pushArg(a)
		}
		if err := fi.External(rt); err != nil {
			return nil, err
		}
		return nil, nil
	case FnExternalReturn:
		for _, a := range args {
			rt.pushArg(a)
		}
		if err := fi.External(rt); err != nil {
			return nil, err
		}
		return rt.PopArg()
	}
	return nil, fmt.Errorf("no such function")
}
