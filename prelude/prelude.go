// Package prelude builds the shared intrinsic name→index table (and the
// lifetime-relevant signature snapshot for each entry) that Module
// construction and the lifetime checker both consult, mirroring
// prelude.rs's Prelude/Dfn/Lt trio referenced by lib.rs.
package prelude

import "github.com/dyon-lang/dyon/ty"

// Lt is a coarse lifetime hint the checker attaches to a function
// argument: whether it is read, returned, or requires a unique binding.
// This is the thin slice of Dyon's real lifetime algebra this port needs
// to refine return types and reject `go` closures that would capture an
// unsafe reference.
type Lt int

const (
	LtDefault Lt = iota
	LtReturn
	LtArgument
)

// Dfn is a function's declared shape, as far as the lifetime checker and
// function resolution need to know it: how many arguments it takes,
// whether it returns a value, and the per-argument lifetime hints.
type Dfn struct {
	Name     string
	ArgCount int
	Returns  bool
	Lts      []Lt
}

// Prelude is the name-indexed signature table shared by a Module's
// intrinsics and consulted by the lifetime checker. Names maps name to
// its position in Order, and Signatures maps name to its Dfn; Order and
// Names are part of the contract since
// the evaluator's intrinsic dispatch table must agree on the same index.
type Prelude struct {
	Order      []string
	Names      map[string]int
	Signatures map[string]Dfn
}

// NewIntrinsics returns the canonical built-in prelude. The order here is
// the contract: runtime's intrinsic dispatch table is indexed the same
// way.
func NewIntrinsics() *Prelude {
	defs := []Dfn{
		{Name: "len", ArgCount: 1, Returns: true},
		{Name: "push", ArgCount: 2, Returns: true},
		{Name: "pop", ArgCount: 1, Returns: true},
		{Name: "clone", ArgCount: 1, Returns: true},
		{Name: "unwrap", ArgCount: 1, Returns: true},
		{Name: "unwrap_err", ArgCount: 1, Returns: true},
		{Name: "is_some", ArgCount: 1, Returns: true},
		{Name: "is_none", ArgCount: 1, Returns: true},
		{Name: "is_ok", ArgCount: 1, Returns: true},
		{Name: "is_err", ArgCount: 1, Returns: true},
		{Name: "vec4_x", ArgCount: 1, Returns: true},
		{Name: "vec4_y", ArgCount: 1, Returns: true},
		{Name: "vec4_z", ArgCount: 1, Returns: true},
		{Name: "vec4_w", ArgCount: 1, Returns: true},
		{Name: "link_push", ArgCount: 2, Returns: true},
		{Name: "link_concat", ArgCount: 2, Returns: true},
		{Name: "keys", ArgCount: 1, Returns: true},
		{Name: "has", ArgCount: 2, Returns: true},
		{Name: "remove", ArgCount: 2, Returns: true},
		{Name: "join", ArgCount: 1, Returns: true},
		{Name: "print", ArgCount: 1, Returns: false},
		{Name: "println", ArgCount: 1, Returns: false},
		{Name: "typeof", ArgCount: 1, Returns: true},
		{Name: "channel", ArgCount: 0, Returns: true},
	}
	p := &Prelude{
		Names:      make(map[string]int, len(defs)),
		Signatures: make(map[string]Dfn, len(defs)),
	}
	for i, d := range defs {
		p.Order = append(p.Order, d.Name)
		p.Names[d.Name] = i
		p.Signatures[d.Name] = d
	}
	return p
}

// RefinedReturn picks the ty.Type a function should be refined to, given
// its last top-level return expression's apparent shape. This is the
// (deliberately small) stand-in for the real lifetime checker's type
// refinement pass.
func RefinedReturn(lastExprShape string) ty.Type {
	switch lastExprShape {
	case "bool":
		return ty.Bool
	case "number":
		return ty.F64
	case "vec4":
		return ty.Vec4
	case "string":
		return ty.Str
	case "array":
		return ty.Array
	case "object":
		return ty.Object
	case "link":
		return ty.Link
	case "option":
		return ty.Option
	case "result":
		return ty.Result
	case "thread":
		return ty.Thread
	case "closure":
		return ty.Closure
	}
	return ty.Any
}
