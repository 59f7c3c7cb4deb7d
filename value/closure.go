package value

import "github.com/dyon-lang/dyon/ast"

// ClosureEnv is the environment a closure value carries: which module it
// was built in, and the relative function-table index its body should be
// addressed from (see runtime.FnIndex's Loaded offset).
//
// Module is intentionally untyped (interface{}) rather than *runtime.Module:
// the runtime package already depends on value.Value (its stack, externals
// and intrinsics all traffic in values), so value cannot import runtime
// without creating an import cycle. The runtime package type-asserts this
// back to *runtime.Module when invoking a closure.
type ClosureEnv struct {
	Module   interface{}
	Relative int
}

// Closure is a shared closure AST plus its captured environment.
type Closure struct {
	Def *ast.Closure
	Env ClosureEnv
}

func (Closure) Kind() Kind { return KindClosure }
func (Closure) sealed()    {}
