// Package dyon is the top-level façade: load a script and run its `main`
// entry point, or build a Module/Runtime by hand for finer control. The
// re-exports below mirror lib.rs's `pub use` list at the crate root.
package dyon

import (
	"github.com/dyon-lang/dyon/embed"
	"github.com/dyon-lang/dyon/load"
	"github.com/dyon-lang/dyon/prelude"
	"github.com/dyon-lang/dyon/runtime"
)

// Re-exports of the lower-level types, so simple embedders need only
// import this one package.
type (
	Module  = runtime.Module
	Runtime = runtime.Runtime
	Call    = embed.Call
	Prelude = prelude.Prelude
	Dfn     = prelude.Dfn
	Lt      = prelude.Lt
)

// NewModule returns an empty module sharing the standard prelude.
func NewModule() *Module { return runtime.NewModule() }

// Run loads the script at path and calls its `main` function, discarding
// any return value.
func Run(path string) error {
	m := NewModule()
	if err := load.Load(path, m); err != nil {
		return err
	}
	return embed.New("main").Run(m)
}

// RunStr loads src (named name for diagnostics) and calls its `main`
// function, discarding any return value.
func RunStr(name, src string) error {
	return RunStrWithModule(name, src, NewModule())
}

// RunStrWithModule loads src into an already-built module (typically one
// with host externals already registered via m.Add) and calls `main`.
func RunStrWithModule(name, src string, m *Module) error {
	if err := load.LoadStr(name, src, m); err != nil {
		return err
	}
	return embed.New("main").Run(m)
}
