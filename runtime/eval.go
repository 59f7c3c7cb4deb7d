package runtime

import (
	"fmt"

	"github.com/dyon-lang/dyon/ast"
	"github.com/dyon-lang/dyon/value"
)

// ctrl reports how evaluating a statement unwound a block: by falling
// through, or by break/continue/return. It plays the role of lib.rs's
// Flow enum.
type ctrl int

const (
	ctrlNone ctrl = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

// scope is a lexical scope frame: a link in a chain of name->stack-index
// maps, one pushed per block, rooted at the call's parameter bindings.
type scope struct {
	parent *scope
	vars   map[string]int
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]int)}
}

func (s *scope) lookup(name string) (int, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if idx, ok := sc.vars[name]; ok {
			return idx, true
		}
	}
	return 0, false
}

func (s *scope) declare(name string, idx int) {
	s.vars[name] = idx
}

// callLoaded invokes the script function at absolute index idx: binds args
// to fresh stack slots, evaluates the body, and unwinds the stack and call
// frame on return (by the block falling out of its loop/if naturally, or
// by explicit `return`).
func (rt *Runtime) callLoaded(idx int, args []value.Value, module *Module) (value.Value, error) {
	if idx < 0 || idx >= len(module.Functions) {
		return nil, fmt.Errorf("no such function")
	}
	fn := module.Functions[idx]
	if len(args) != len(fn.Params) {
		return nil, fmt.Errorf("%s: expected %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	base := len(rt.Stack)
	sc := newScope(nil)
	locals := make(map[string]int, len(fn.Params))
	for i, p := range fn.Params {
		slot := len(rt.Stack)
		rt.Stack = append(rt.Stack, value.DeepClone(args[i], rt.Stack))
		sc.declare(p, slot)
		locals[p] = slot
	}
	rt.CallStack = append(rt.CallStack, Frame{FuncIndex: idx, BaseIndex: base, Locals: locals})
	defer func() {
		rt.CallStack = rt.CallStack[:len(rt.CallStack)-1]
		rt.Stack = rt.Stack[:base]
	}()

	v, c, err := rt.evalBlock(fn.Body, sc, module)
	if err != nil {
		return nil, fmt.Errorf("%s", module.ErrorFnIndex(fn.Body.Pos, err.Error(), idx))
	}
	if c == ctrlReturn {
		return v, nil
	}
	return nil, nil
}

// callClosure invokes a closure value directly, using its captured
// environment to resolve any nested calls its body makes.
func (rt *Runtime) callClosure(cl value.Closure, args []value.Value) (value.Value, error) {
	module, ok := cl.Env.Module.(*Module)
	if !ok {
		return nil, fmt.Errorf("closure has no module bound")
	}
	if len(args) != len(cl.Def.Params) {
		return nil, fmt.Errorf("closure: expected %d argument(s), got %d", len(cl.Def.Params), len(args))
	}
	base := len(rt.Stack)
	sc := newScope(nil)
	locals := make(map[string]int, len(cl.Def.Params))
	for i, p := range cl.Def.Params {
		slot := len(rt.Stack)
		rt.Stack = append(rt.Stack, value.DeepClone(args[i], rt.Stack))
		sc.declare(p, slot)
		locals[p] = slot
	}
	rt.CallStack = append(rt.CallStack, Frame{FuncIndex: cl.Env.Relative, BaseIndex: base, Locals: locals})
	defer func() {
		rt.CallStack = rt.CallStack[:len(rt.CallStack)-1]
		rt.Stack = rt.Stack[:base]
	}()

	v, c, err := rt.evalBlock(cl.Def.Body, sc, module)
	if err != nil {
		return nil, err
	}
	if c == ctrlReturn {
		return v, nil
	}
	return nil, nil
}

// currentRelative returns the function-table index the top call frame
// should resolve names relative to; a host-level frame (FuncIndex < 0)
// resolves relative to 0, same as a direct CallStr.
func (rt *Runtime) currentRelative() int {
	f := rt.CallStack[len(rt.CallStack)-1]
	if f.FuncIndex < 0 {
		return 0
	}
	return f.FuncIndex
}

func (rt *Runtime) evalBlock(n *ast.Node, sc *scope, module *Module) (value.Value, ctrl, error) {
	inner := newScope(sc)
	var last value.Value
	for _, stmt := range n.Children {
		v, c, err := rt.evalNode(stmt, inner, module)
		if err != nil {
			return nil, ctrlNone, err
		}
		if c != ctrlNone {
			return v, c, nil
		}
		last = v
	}
	return last, ctrlNone, nil
}

func (rt *Runtime) evalNode(n *ast.Node, sc *scope, module *Module) (value.Value, ctrl, error) {
	switch n.Kind {
	case ast.KindBlock:
		return rt.evalBlock(n, sc, module)

	case ast.KindLitBool:
		return value.B(n.Bool), ctrlNone, nil
	case ast.KindLitNumber:
		return value.F(n.Number), ctrlNone, nil
	case ast.KindLitText:
		return value.Str(n.Text), ctrlNone, nil
	case ast.KindLitVec4:
		var comps [4]float32
		for i, c := range n.Children {
			v, ctl, err := rt.evalNode(c, sc, module)
			if err != nil || ctl != ctrlNone {
				return v, ctl, err
			}
			f, ok := v.(value.F64)
			if !ok {
				return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(v, "f64"))
			}
			comps[i] = float32(f.V)
		}
		return value.V4(comps[0], comps[1], comps[2], comps[3]), ctrlNone, nil

	case ast.KindIdent:
		idx, ok := sc.lookup(n.Name)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("undefined variable `%s`", n.Name)
		}
		return rt.Stack[idx], ctrlNone, nil

	case ast.KindLet:
		v, c, err := rt.evalNode(n.Children[0], sc, module)
		if err != nil || c != ctrlNone {
			return v, c, err
		}
		slot := len(rt.Stack)
		rt.Stack = append(rt.Stack, value.DeepClone(v, rt.Stack))
		sc.declare(n.Name, slot)
		return nil, ctrlNone, nil

	case ast.KindAssign:
		v, c, err := rt.evalNode(n.Children[0], sc, module)
		if err != nil || c != ctrlNone {
			return v, c, err
		}
		idx, ok := sc.lookup(n.Name)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("undefined variable `%s`", n.Name)
		}
		rt.Stack[idx] = value.DeepClone(v, rt.Stack)
		return nil, ctrlNone, nil

	case ast.KindBinOp:
		return rt.evalBinOp(n, sc, module)
	case ast.KindUnOp:
		return rt.evalUnOp(n, sc, module)

	case ast.KindIf:
		condV, c, err := rt.evalNode(n.Children[0], sc, module)
		if err != nil || c != ctrlNone {
			return condV, c, err
		}
		cond, ok := condV.(value.Bool)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(condV, "bool"))
		}
		if cond.V {
			return rt.evalBlock(n.Children[1], sc, module)
		}
		if len(n.Children) > 2 {
			return rt.evalNode(n.Children[2], sc, module)
		}
		return nil, ctrlNone, nil

	case ast.KindLoop:
		body := n.Children[0]
		for {
			v, c, err := rt.evalBlock(body, sc, module)
			if err != nil {
				return nil, ctrlNone, err
			}
			switch c {
			case ctrlBreak:
				return nil, ctrlNone, nil
			case ctrlReturn:
				return v, ctrlReturn, nil
			case ctrlContinue, ctrlNone:
				continue
			}
		}

	case ast.KindBreak:
		return nil, ctrlBreak, nil
	case ast.KindContinue:
		return nil, ctrlContinue, nil

	case ast.KindReturn:
		if len(n.Children) == 0 {
			return nil, ctrlReturn, nil
		}
		v, c, err := rt.evalNode(n.Children[0], sc, module)
		if err != nil || c != ctrlNone {
			return v, c, err
		}
		return v, ctrlReturn, nil

	case ast.KindCall:
		return rt.evalCall(n, sc, module)

	case ast.KindGo:
		return rt.evalGo(n, sc, module)

	case ast.KindArrayLit:
		items := make([]value.Value, len(n.Children))
		for i, c := range n.Children {
			v, ctl, err := rt.evalNode(c, sc, module)
			if err != nil || ctl != ctrlNone {
				return v, ctl, err
			}
			items[i] = value.DeepClone(v, rt.Stack)
		}
		return value.Arr(items), ctrlNone, nil

	case ast.KindLinkLit:
		items := make([]value.Value, len(n.Children))
		for i, c := range n.Children {
			v, ctl, err := rt.evalNode(c, sc, module)
			if err != nil || ctl != ctrlNone {
				return v, ctl, err
			}
			items[i] = value.DeepClone(v, rt.Stack)
		}
		return value.NewLink(items...), ctrlNone, nil

	case ast.KindObjectLit:
		fields := make(map[string]value.Value, len(n.Children))
		for _, pair := range n.Children {
			v, ctl, err := rt.evalNode(pair.Children[0], sc, module)
			if err != nil || ctl != ctrlNone {
				return v, ctl, err
			}
			fields[pair.Name] = value.DeepClone(v, rt.Stack)
		}
		return value.Obj(fields), ctrlNone, nil

	case ast.KindIndex:
		targetV, ctl, err := rt.evalNode(n.Children[0], sc, module)
		if err != nil || ctl != ctrlNone {
			return targetV, ctl, err
		}
		idxV, ctl, err := rt.evalNode(n.Children[1], sc, module)
		if err != nil || ctl != ctrlNone {
			return idxV, ctl, err
		}
		arr, ok := targetV.(value.Array)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(targetV, "array"))
		}
		idxF, ok := idxV.(value.F64)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(idxV, "f64"))
		}
		i := int(idxF.V)
		if i < 0 || i >= len(arr.Items) {
			return nil, ctrlNone, fmt.Errorf("index %d out of bounds (len %d)", i, len(arr.Items))
		}
		return arr.Items[i], ctrlNone, nil

	case ast.KindField:
		targetV, ctl, err := rt.evalNode(n.Children[0], sc, module)
		if err != nil || ctl != ctrlNone {
			return targetV, ctl, err
		}
		obj, ok := targetV.(value.Object)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(targetV, "object"))
		}
		fv, ok := obj.Fields[n.Name]
		if !ok {
			return nil, ctrlNone, fmt.Errorf("no such field `%s`", n.Name)
		}
		return fv, ctrlNone, nil

	case ast.KindSome, ast.KindOk, ast.KindErr:
		v, ctl, err := rt.evalNode(n.Children[0], sc, module)
		if err != nil || ctl != ctrlNone {
			return v, ctl, err
		}
		v = value.DeepClone(v, rt.Stack)
		switch n.Kind {
		case ast.KindSome:
			return value.Some(v), ctrlNone, nil
		case ast.KindOk:
			return value.Ok(v), ctrlNone, nil
		default:
			return value.Err(&value.ScriptError{Message: v}), ctrlNone, nil
		}

	case ast.KindTry:
		v, ctl, err := rt.evalNode(n.Children[0], sc, module)
		if err != nil || ctl != ctrlNone {
			return v, ctl, err
		}
		res, ok := v.(value.Result)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(v, "result"))
		}
		if res.Ok {
			return res.Value, ctrlNone, nil
		}
		frame := fmt.Sprintf("function#%d", rt.currentRelative())
		return value.Err(res.Err.WithFrame(frame)), ctrlReturn, nil

	case ast.KindNone:
		return value.None(), ctrlNone, nil

	case ast.KindClosureLit:
		return value.Closure{Def: n.Closure, Env: value.ClosureEnv{Module: module, Relative: rt.currentRelative()}}, ctrlNone, nil

	case ast.KindSend:
		chV, ctl, err := rt.evalNode(n.Children[0], sc, module)
		if err != nil || ctl != ctrlNone {
			return chV, ctl, err
		}
		valV, ctl, err := rt.evalNode(n.Children[1], sc, module)
		if err != nil || ctl != ctrlNone {
			return valV, ctl, err
		}
		h, ok := chV.(value.Host)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(chV, "rust_object"))
		}
		out, ok := h.Get().(value.Out)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("not a channel")
		}
		out.Send(value.DeepClone(valV, rt.Stack))
		return nil, ctrlNone, nil

	case ast.KindRecv:
		chV, ctl, err := rt.evalNode(n.Children[0], sc, module)
		if err != nil || ctl != ctrlNone {
			return chV, ctl, err
		}
		in, ok := chV.(value.In)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(chV, "in"))
		}
		v, ok := in.Recv()
		if !ok {
			return nil, ctrlNone, fmt.Errorf("channel closed")
		}
		return v, ctrlNone, nil
	}
	return nil, ctrlNone, fmt.Errorf("unsupported node kind %v", n.Kind)
}

func (rt *Runtime) evalArgs(nodes []*ast.Node, sc *scope, module *Module) ([]value.Value, ctrl, error) {
	args := make([]value.Value, len(nodes))
	for i, a := range nodes {
		v, c, err := rt.evalNode(a, sc, module)
		if err != nil || c != ctrlNone {
			return nil, c, err
		}
		args[i] = v
	}
	return args, ctrlNone, nil
}

func (rt *Runtime) evalCall(n *ast.Node, sc *scope, module *Module) (value.Value, ctrl, error) {
	args, c, err := rt.evalArgs(n.Children, sc, module)
	if err != nil || c != ctrlNone {
		return nil, c, err
	}
	// A local variable shadows a script/external/intrinsic name: calling
	// through a closure value bound in scope takes priority, mirroring the
	// last-definition-wins shadowing FindFunction applies to names.
	if idx, ok := sc.lookup(n.Name); ok {
		if cl, ok := rt.Stack[idx].(value.Closure); ok {
			v, err := rt.callClosure(cl, args)
			return v, ctrlNone, err
		}
	}
	relative := rt.currentRelative()
	fi := module.FindFunction(n.Name, relative)
	if fi.Kind == FnNone {
		return nil, ctrlNone, fmt.Errorf("no such function `%s`", n.Name)
	}
	v, err := rt.invoke(fi, relative, args, module)
	return v, ctrlNone, err
}

func (rt *Runtime) evalGo(n *ast.Node, sc *scope, module *Module) (value.Value, ctrl, error) {
	call := n.Children[0]
	args, c, err := rt.evalArgs(call.Children, sc, module)
	if err != nil || c != ctrlNone {
		return nil, c, err
	}
	cloned := make([]value.Value, len(args))
	for i, a := range args {
		cloned[i] = value.DeepClone(a, rt.Stack)
	}
	relative := rt.currentRelative()
	fi := module.FindFunction(call.Name, relative)
	if fi.Kind == FnNone {
		return nil, ctrlNone, fmt.Errorf("no such function `%s`", call.Name)
	}
	th := value.NewThread(func() value.ThreadResult {
		child := NewRuntime()
		v, err := child.invoke(fi, relative, cloned, module)
		if err != nil {
			return value.ThreadResult{Err: err.Error()}
		}
		return value.ThreadResult{Value: v}
	})
	return th, ctrlNone, nil
}

func (rt *Runtime) evalBinOp(n *ast.Node, sc *scope, module *Module) (value.Value, ctrl, error) {
	lv, c, err := rt.evalNode(n.Children[0], sc, module)
	if err != nil || c != ctrlNone {
		return lv, c, err
	}
	rv, c, err := rt.evalNode(n.Children[1], sc, module)
	if err != nil || c != ctrlNone {
		return rv, c, err
	}
	switch n.BinOp {
	case ast.OpEq:
		return value.B(value.Equal(lv, rv)), ctrlNone, nil
	case ast.OpNotEq:
		return value.B(!value.Equal(lv, rv)), ctrlNone, nil
	case ast.OpAnd:
		lb, ok := lv.(value.Bool)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(lv, "bool"))
		}
		rb, ok := rv.(value.Bool)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(rv, "bool"))
		}
		return value.B(lb.V && rb.V), ctrlNone, nil
	case ast.OpOr:
		lb, ok := lv.(value.Bool)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(lv, "bool"))
		}
		rb, ok := rv.(value.Bool)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(rv, "bool"))
		}
		return value.B(lb.V || rb.V), ctrlNone, nil
	}

	if lt, ok := lv.(value.Text); ok {
		if n.BinOp != ast.OpAdd {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(rv, "f64"))
		}
		rt2, ok := rv.(value.Text)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(rv, "str"))
		}
		return value.Str(lt.V + rt2.V), ctrlNone, nil
	}

	lf, ok := lv.(value.F64)
	if !ok {
		return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(lv, "f64"))
	}
	rf, ok := rv.(value.F64)
	if !ok {
		return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(rv, "f64"))
	}
	switch n.BinOp {
	case ast.OpAdd:
		return value.F(lf.V + rf.V), ctrlNone, nil
	case ast.OpSub:
		return value.F(lf.V - rf.V), ctrlNone, nil
	case ast.OpMul:
		return value.F(lf.V * rf.V), ctrlNone, nil
	case ast.OpDiv:
		return value.F(lf.V / rf.V), ctrlNone, nil
	case ast.OpRem:
		return value.F(float64(int64(lf.V) % int64(rf.V))), ctrlNone, nil
	case ast.OpLess:
		return value.B(lf.V < rf.V), ctrlNone, nil
	case ast.OpLessEq:
		return value.B(lf.V <= rf.V), ctrlNone, nil
	case ast.OpGreater:
		return value.B(lf.V > rf.V), ctrlNone, nil
	case ast.OpGreaterEq:
		return value.B(lf.V >= rf.V), ctrlNone, nil
	case ast.OpDotDot:
		lo, hi := int(lf.V), int(rf.V)
		items := make([]value.Value, 0, hi-lo)
		for i := lo; i < hi; i++ {
			items = append(items, value.F(float64(i)))
		}
		return value.NewLink(items...), ctrlNone, nil
	}
	return nil, ctrlNone, fmt.Errorf("unsupported binary operator")
}

func (rt *Runtime) evalUnOp(n *ast.Node, sc *scope, module *Module) (value.Value, ctrl, error) {
	v, c, err := rt.evalNode(n.Children[0], sc, module)
	if err != nil || c != ctrlNone {
		return v, c, err
	}
	switch n.UnOp {
	case ast.OpNeg:
		f, ok := v.(value.F64)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(v, "f64"))
		}
		return value.F(-f.V), ctrlNone, nil
	case ast.OpNot:
		b, ok := v.(value.Bool)
		if !ok {
			return nil, ctrlNone, fmt.Errorf("%s", rt.Expected(v, "bool"))
		}
		return value.B(!b.V), ctrlNone, nil
	}
	return nil, ctrlNone, fmt.Errorf("unsupported unary operator")
}
