package runtime

import (
	"testing"

	"github.com/dyon-lang/dyon/ast"
	"github.com/dyon-lang/dyon/value"
)

// addFn builds `fn add(a, b) { return a + b }` directly as an ast.Function,
// bypassing the parser/convert pipeline to exercise the evaluator in
// isolation.
func addFn() *ast.Function {
	body := &ast.Node{Kind: ast.KindBlock, Children: []*ast.Node{
		{Kind: ast.KindReturn, Children: []*ast.Node{
			{Kind: ast.KindBinOp, BinOp: ast.OpAdd, Children: []*ast.Node{
				{Kind: ast.KindIdent, Name: "a"},
				{Kind: ast.KindIdent, Name: "b"},
			}},
		}},
	}}
	src := ""
	return &ast.Function{Name: "add", Params: []string{"a", "b"}, Body: body, Source: &src}
}

func TestCallStrRetLoadedFunction(t *testing.T) {
	m := NewModule()
	m.Register(addFn())
	rt := NewRuntime()

	v, err := rt.CallStrRet("add", []value.Value{value.F(2), value.F(3)}, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := v.(value.F64)
	if !ok || f.V != 5 {
		t.Fatalf("expected 5, got %#v", v)
	}
	if len(rt.Stack) != 0 {
		t.Fatalf("expected stack to unwind to empty, got %d", len(rt.Stack))
	}
}

func TestCallStrVoidExternalReportsNoValue(t *testing.T) {
	m := NewModule()
	calledWith := value.Value(nil)
	m.Add("observe", func(rt *Runtime) error {
		v, err := rt.PopArg()
		if err != nil {
			return err
		}
		calledWith = v
		return nil
	}, false)
	rt := NewRuntime()

	if err := rt.CallStr("observe", []value.Value{value.Str("hi")}, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calledWith == nil {
		t.Fatal("external was not invoked")
	}
	if _, err := rt.CallStrRet("observe", []value.Value{value.Str("hi")}, m); err == nil {
		t.Fatal("expected an error calling a void function for its return value")
	}
}

func TestCallStrRetUnknownFunction(t *testing.T) {
	m := NewModule()
	rt := NewRuntime()
	if _, err := rt.CallStrRet("nope", nil, m); err == nil {
		t.Fatal("expected error for unresolved function")
	}
}

func TestLoopBreak(t *testing.T) {
	// fn count_to(n) {
	//   i := 0
	//   total := 0
	//   loop {
	//     if i == n { break }
	//     i = i + 1
	//     total = total + i
	//   }
	//   return total
	// }
	body := &ast.Node{Kind: ast.KindBlock, Children: []*ast.Node{
		{Kind: ast.KindLet, Name: "i", Children: []*ast.Node{{Kind: ast.KindLitNumber, Number: 0}}},
		{Kind: ast.KindLet, Name: "total", Children: []*ast.Node{{Kind: ast.KindLitNumber, Number: 0}}},
		{Kind: ast.KindLoop, Children: []*ast.Node{
			{Kind: ast.KindBlock, Children: []*ast.Node{
				{Kind: ast.KindIf, Children: []*ast.Node{
					{Kind: ast.KindBinOp, BinOp: ast.OpEq, Children: []*ast.Node{
						{Kind: ast.KindIdent, Name: "i"},
						{Kind: ast.KindIdent, Name: "n"},
					}},
					{Kind: ast.KindBlock, Children: []*ast.Node{{Kind: ast.KindBreak}}},
				}},
				{Kind: ast.KindAssign, Name: "i", Children: []*ast.Node{
					{Kind: ast.KindBinOp, BinOp: ast.OpAdd, Children: []*ast.Node{
						{Kind: ast.KindIdent, Name: "i"},
						{Kind: ast.KindLitNumber, Number: 1},
					}},
				}},
				{Kind: ast.KindAssign, Name: "total", Children: []*ast.Node{
					{Kind: ast.KindBinOp, BinOp: ast.OpAdd, Children: []*ast.Node{
						{Kind: ast.KindIdent, Name: "total"},
						{Kind: ast.KindIdent, Name: "i"},
					}},
				}},
			}},
		}},
		{Kind: ast.KindReturn, Children: []*ast.Node{{Kind: ast.KindIdent, Name: "total"}}},
	}}
	src := ""
	m := NewModule()
	m.Register(&ast.Function{Name: "count_to", Params: []string{"n"}, Body: body, Source: &src})
	rt := NewRuntime()

	v, err := rt.CallStrRet("count_to", []value.Value{value.F(4)}, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f := v.(value.F64)
	if f.V != 10 {
		t.Fatalf("expected 10, got %v", f.V)
	}
}

func TestClosureCall(t *testing.T) {
	// fn make() { return |x| { return x } }
	m := NewModule()
	closureBody := &ast.Node{Kind: ast.KindBlock, Children: []*ast.Node{
		{Kind: ast.KindReturn, Children: []*ast.Node{{Kind: ast.KindIdent, Name: "x"}}},
	}}
	body := &ast.Node{Kind: ast.KindBlock, Children: []*ast.Node{
		{Kind: ast.KindReturn, Children: []*ast.Node{
			{Kind: ast.KindClosureLit, Closure: &ast.Closure{Params: []string{"x"}, Body: closureBody}},
		}},
	}}
	src := ""
	m.Register(&ast.Function{Name: "make", Params: nil, Body: body, Source: &src})
	rt := NewRuntime()

	v, err := rt.CallStrRet("make", nil, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cl, ok := v.(value.Closure)
	if !ok {
		t.Fatalf("expected closure, got %#v", v)
	}
	out, err := rt.callClosure(cl, []value.Value{value.F(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f := out.(value.F64); f.V != 7 {
		t.Fatalf("expected 7, got %v", f.V)
	}
}

func TestChannelSendRecvRoundTrip(t *testing.T) {
	// fn roundtrip() {
	//   pair := channel()
	//   send(pair[0], 42)
	//   return recv(pair[1])
	// }
	body := &ast.Node{Kind: ast.KindBlock, Children: []*ast.Node{
		{Kind: ast.KindLet, Name: "pair", Children: []*ast.Node{{Kind: ast.KindCall, Name: "channel"}}},
		{Kind: ast.KindSend, Children: []*ast.Node{
			{Kind: ast.KindIndex, Children: []*ast.Node{
				{Kind: ast.KindIdent, Name: "pair"},
				{Kind: ast.KindLitNumber, Number: 0},
			}},
			{Kind: ast.KindLitNumber, Number: 42},
		}},
		{Kind: ast.KindReturn, Children: []*ast.Node{
			{Kind: ast.KindRecv, Children: []*ast.Node{
				{Kind: ast.KindIndex, Children: []*ast.Node{
					{Kind: ast.KindIdent, Name: "pair"},
					{Kind: ast.KindLitNumber, Number: 1},
				}},
			}},
		}},
	}}
	src := ""
	m := NewModule()
	m.Register(&ast.Function{Name: "roundtrip", Body: body, Source: &src})
	rt := NewRuntime()

	v, err := rt.CallStrRet("roundtrip", nil, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := v.(value.F64)
	if !ok || f.V != 42 {
		t.Fatalf("expected 42, got %#v", v)
	}
}

func TestExpectedMessageContainsTypeName(t *testing.T) {
	rt := NewRuntime()
	msg := rt.Expected(value.F(1), "vec4")
	if msg != "expected vec4, got f64" {
		t.Fatalf("unexpected message: %q", msg)
	}
}
