package runtime_test

import (
	"testing"

	"github.com/dyon-lang/dyon/convert"
	"github.com/dyon-lang/dyon/runtime"
	"github.com/dyon-lang/dyon/syntax"
	"github.com/dyon-lang/dyon/value"
)

// loadBench parses and converts src once, returning a ready-to-call
// module — the Go counterpart of lib.rs's #[bench] fixtures, which loaded
// a `.dyon` asset once per benchmark function.
func loadBench(b *testing.B, src string) *runtime.Module {
	b.Helper()
	root, err := syntax.Parse("bench", src)
	if err != nil {
		b.Fatalf("parse: %v", err)
	}
	m := runtime.NewModule()
	if _, err := convert.Convert(root, &src, m); err != nil {
		b.Fatalf("convert: %v", err)
	}
	return m
}

func BenchmarkAdd(b *testing.B) {
	m := loadBench(b, "fn add(a, b) { return a + b }")
	rt := runtime.NewRuntime()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rt.CallStrRet("add", []value.Value{value.F(1), value.F(2)}, m); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSum(b *testing.B) {
	m := loadBench(b, `
		fn sum(n) {
			i := 0
			total := 0
			loop {
				if i == n { break }
				i = i + 1
				total = total + i
			}
			return total
		}
	`)
	rt := runtime.NewRuntime()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rt.CallStrRet("sum", []value.Value{value.F(1000)}, m); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFib(b *testing.B) {
	m := loadBench(b, `
		fn fib(n) {
			if n < 2 { return n }
			return fib(n - 1) + fib(n - 2)
		}
	`)
	rt := runtime.NewRuntime()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rt.CallStrRet("fib", []value.Value{value.F(12)}, m); err != nil {
			b.Fatal(err)
		}
	}
}
