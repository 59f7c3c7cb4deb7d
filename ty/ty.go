// Package ty holds the small type lattice the lifetime checker refines
// function return types against, mirroring Dyon's ty.rs.
package ty

// Type is the lifetime checker's view of a function's return type. It is
// coarser than a full script type system on purpose (see spec.md
// Non-goals: "static type inference beyond what the lifetime checker
// refines for function returns").
type Type int

const (
	Any Type = iota
	Void
	Bool
	F64
	Vec4
	Str
	Array
	Object
	Link
	Option
	Result
	Thread
	Closure
)

func (t Type) String() string {
	switch t {
	case Any:
		return "any"
	case Void:
		return "void"
	case Bool:
		return "bool"
	case F64:
		return "f64"
	case Vec4:
		return "vec4"
	case Str:
		return "str"
	case Array:
		return "array"
	case Object:
		return "object"
	case Link:
		return "link"
	case Option:
		return "option"
	case Result:
		return "result"
	case Thread:
		return "thread"
	case Closure:
		return "closure"
	}
	return "unknown"
}
