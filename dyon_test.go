package dyon

import "testing"

func TestRunStrCallsMain(t *testing.T) {
	var sawMain bool
	src := "fn main() { mark() }"
	m := NewModule()
	m.Add("mark", func(rt *Runtime) error {
		sawMain = true
		return nil
	}, false)
	if err := RunStrWithModule("t.dyon", src, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawMain {
		t.Fatal("main was not invoked")
	}
}

func TestRunStrReportsParseError(t *testing.T) {
	if err := RunStr("bad.dyon", "not a program"); err == nil {
		t.Fatal("expected a parse error")
	}
}
