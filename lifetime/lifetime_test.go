package lifetime

import (
	"testing"

	"github.com/dyon-lang/dyon/prelude"
	"github.com/dyon-lang/dyon/syntax"
	"github.com/dyon-lang/dyon/ty"
)

func TestCheckRefinesNumberReturn(t *testing.T) {
	root, err := syntax.Parse("t", "fn add(a, b) { return a + b }")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	refined, err := Check(root, prelude.NewIntrinsics())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if refined["add"] != ty.F64 {
		t.Fatalf("expected F64, got %v", refined["add"])
	}
}

func TestCheckRefinesBoolReturn(t *testing.T) {
	root, err := syntax.Parse("t", "fn yes() { return true }")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	refined, err := Check(root, prelude.NewIntrinsics())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if refined["yes"] != ty.Bool {
		t.Fatalf("expected Bool, got %v", refined["yes"])
	}
}

func TestCheckAnyForUncomputableShape(t *testing.T) {
	root, err := syntax.Parse("t", "fn f() { return g() }")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	refined, err := Check(root, prelude.NewIntrinsics())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if refined["f"] != ty.Any {
		t.Fatalf("expected Any, got %v", refined["f"])
	}
}
