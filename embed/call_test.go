package embed

import (
	"strings"
	"testing"

	"github.com/dyon-lang/dyon/load"
	"github.com/dyon-lang/dyon/runtime"
)

func TestRunRetDouble(t *testing.T) {
	m := runtime.NewModule()
	if err := load.LoadStr("double.dyon", "fn double(x) { return x * 2 }", m); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := RunRet[float64](New("double").Arg(3.0), m)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != 6.0 {
		t.Fatalf("expected 6.0, got %v", got)
	}
}

func TestRunVec4RoundTrip(t *testing.T) {
	m := runtime.NewModule()
	src := "fn origin() { return vec4(0, 0, 0, 1) }"
	if err := load.LoadStr("origin.dyon", src, m); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := New("origin").RunVec4(m)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := [4]float32{0, 0, 0, 1}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRunVec4OnNonVec4Fails(t *testing.T) {
	m := runtime.NewModule()
	if err := load.LoadStr("notvec4.dyon", "fn notvec4() { return 1 }", m); err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err := New("notvec4").RunVec4(m)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "expected vec4") {
		t.Fatalf("expected message to contain %q, got %q", "expected vec4", err.Error())
	}
}
