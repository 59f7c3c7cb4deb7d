// Package runtime is the evaluator (C5) together with the module/function
// registry (C2): the two sit in one Go package because, exactly as in
// lib.rs, they are mutually referential (a Module's externals are invoked
// with a live *Runtime, and the Runtime resolves calls through a Module).
// A Go package boundary cannot host that cycle split across two packages,
// so this is the one deliberate merge in an otherwise layered tree.
package runtime

import (
	"fmt"

	"github.com/dyon-lang/dyon/ast"
	"github.com/dyon-lang/dyon/prelude"
	"github.com/dyon-lang/dyon/syntax"
)

// ExternalFunc is a host-supplied function registered into a module. It
// reads its arguments off the top of rt.Stack and, if it returns a value,
// leaves exactly one new value on top.
type ExternalFunc func(rt *Runtime) error

// External is one host-registered function: a name (used only for
// resolution — the FnIndex that find_function returns carries only the
// raw function pointer, never the name, per spec.md 3.5) plus whether it
// returns a value.
type External struct {
	Name    string
	Fn      ExternalFunc
	Returns bool
}

// FnIndexKind tags which case of FnIndex is populated.
type FnIndexKind int

const (
	FnNone FnIndexKind = iota
	FnIntrinsic
	FnLoaded
	FnExternalVoid
	FnExternalReturn
)

// FnIndex is the result of resolving a name: at most one of Intrinsic,
// Loaded or External is meaningful, selected by Kind.
type FnIndex struct {
	Kind      FnIndexKind
	Intrinsic int
	Loaded    int // signed offset relative to the caller's function index
	External  ExternalFunc
}

// Module holds a module's script functions, host externals, and the
// shared intrinsic name→index map (spec.md 3.4).
type Module struct {
	Functions  []*ast.Function
	Externals  []External
	Intrinsics *prelude.Prelude
}

// NewModule returns a module sharing the standard intrinsic prelude.
func NewModule() *Module {
	return &Module{Intrinsics: prelude.NewIntrinsics()}
}

// NewModuleWithIntrinsics returns a module sharing a caller-supplied
// intrinsic prelude, for embedders that extend or replace the standard
// one across several modules that must agree on indices.
func NewModuleWithIntrinsics(p *prelude.Prelude) *Module {
	return &Module{Intrinsics: p}
}

// Register appends a script function to the module.
func (m *Module) Register(f *ast.Function) {
	m.Functions = append(m.Functions, f)
}

// Add appends a host external function.
func (m *Module) Add(name string, fn ExternalFunc, returns bool) {
	m.Externals = append(m.Externals, External{Name: name, Fn: fn, Returns: returns})
}

// FindFunction resolves name relative to relative (the caller's own
// position in the function table), scanning script functions most-recent
// first, then externals most-recent-first, then the intrinsic table —
// giving last-definition-wins shadowing semantics (spec.md 4.2).
func (m *Module) FindFunction(name string, relative int) FnIndex {
	for i := len(m.Functions) - 1; i >= 0; i-- {
		if m.Functions[i].Name == name {
			return FnIndex{Kind: FnLoaded, Loaded: i - relative}
		}
	}
	for i := len(m.Externals) - 1; i >= 0; i-- {
		if m.Externals[i].Name == name {
			if m.Externals[i].Returns {
				return FnIndex{Kind: FnExternalReturn, External: m.Externals[i].Fn}
			}
			return FnIndex{Kind: FnExternalVoid, External: m.Externals[i].Fn}
		}
	}
	if m.Intrinsics != nil {
		if idx, ok := m.Intrinsics.Names[name]; ok {
			return FnIndex{Kind: FnIntrinsic, Intrinsic: idx}
		}
	}
	return FnIndex{Kind: FnNone}
}

// Error formats a diagnostic pinned to rng, using the currently executing
// function (the top of rt's call stack) to find the originating source.
func (m *Module) Error(rng syntax.Range, msg string, rt *Runtime) string {
	fi := rt.CallStack[len(rt.CallStack)-1].FuncIndex
	return m.ErrorFnIndex(rng, msg, fi)
}

// ErrorFnIndex formats a diagnostic pinned to rng against the source of
// the function at fnIndex — used by callers (e.g. intrinsics) that only
// have a function index, not a live *Runtime.
func (m *Module) ErrorFnIndex(rng syntax.Range, msg string, fnIndex int) string {
	f := m.Functions[fnIndex]
	return m.ErrorSource(rng, msg, f.Source)
}

// ErrorSource formats a diagnostic pinned to rng against an explicit
// source buffer.
func (m *Module) ErrorSource(rng syntax.Range, msg string, source *string) string {
	return syntax.NewErrorHandler(*source).WriteMsg(rng, msg)
}

// String renders a FnIndexKind for debugging.
func (k FnIndexKind) String() string {
	switch k {
	case FnNone:
		return "None"
	case FnIntrinsic:
		return "Intrinsic"
	case FnLoaded:
		return "Loaded"
	case FnExternalVoid:
		return "ExternalVoid"
	case FnExternalReturn:
		return "ExternalReturn"
	}
	return fmt.Sprintf("FnIndexKind(%d)", int(k))
}
