package convert

import (
	"testing"

	"github.com/dyon-lang/dyon/runtime"
	"github.com/dyon-lang/dyon/syntax"
	"github.com/dyon-lang/dyon/value"
)

func TestConvertAndRunAddition(t *testing.T) {
	src := "fn add(a, b) { return a + b }"
	root, err := syntax.Parse("t", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m := runtime.NewModule()
	ignored, err := Convert(root, &src, m)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(ignored) != 0 {
		t.Fatalf("expected no ignored ranges, got %v", ignored)
	}

	rt := runtime.NewRuntime()
	v, err := rt.CallStrRet("add", []value.Value{value.F(2), value.F(5)}, m)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if f := v.(value.F64); f.V != 7 {
		t.Fatalf("expected 7, got %v", f.V)
	}
}

func TestConvertRecordsExternAsIgnored(t *testing.T) {
	src := "extern host_log()\nfn f() { return 1 }"
	root, err := syntax.Parse("t", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m := runtime.NewModule()
	ignored, err := Convert(root, &src, m)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(ignored) != 1 {
		t.Fatalf("expected exactly one ignored range, got %d", len(ignored))
	}
	if len(m.Functions) != 1 || m.Functions[0].Name != "f" {
		t.Fatalf("expected f to still be registered, got %#v", m.Functions)
	}
}

func TestConvertNoneLiteral(t *testing.T) {
	src := "fn absent() { return none() }"
	root, err := syntax.Parse("t", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m := runtime.NewModule()
	if _, err := Convert(root, &src, m); err != nil {
		t.Fatalf("convert: %v", err)
	}
	rt := runtime.NewRuntime()
	v, err := rt.CallStrRet("absent", nil, m)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	o, ok := v.(value.Option)
	if !ok || o.Present {
		t.Fatalf("expected an absent option, got %#v", v)
	}
}

func TestConvertParsesSendAndRecv(t *testing.T) {
	src := `fn roundtrip() {
		pair := channel()
		send(pair[0], 9)
		return recv(pair[1])
	}`
	root, err := syntax.Parse("t", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m := runtime.NewModule()
	if _, err := Convert(root, &src, m); err != nil {
		t.Fatalf("convert: %v", err)
	}
	rt := runtime.NewRuntime()
	v, err := rt.CallStrRet("roundtrip", nil, m)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if f := v.(value.F64); f.V != 9 {
		t.Fatalf("expected 9, got %v", f.V)
	}
}

func TestConvertIfElseChain(t *testing.T) {
	src := `fn classify(n) {
		if n < 0 {
			return "neg"
		} else if n == 0 {
			return "zero"
		} else {
			return "pos"
		}
	}`
	root, err := syntax.Parse("t", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m := runtime.NewModule()
	if _, err := Convert(root, &src, m); err != nil {
		t.Fatalf("convert: %v", err)
	}
	rt := runtime.NewRuntime()
	for _, tc := range []struct {
		in   float64
		want string
	}{{-1, "neg"}, {0, "zero"}, {3, "pos"}} {
		v, err := rt.CallStrRet("classify", []value.Value{value.F(tc.in)}, m)
		if err != nil {
			t.Fatalf("call(%v): %v", tc.in, err)
		}
		if s := v.(value.Text); s.V != tc.want {
			t.Fatalf("classify(%v) = %q, want %q", tc.in, s.V, tc.want)
		}
	}
}
