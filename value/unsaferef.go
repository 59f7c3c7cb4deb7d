package value

// UnsafeRef is a raw interior pointer to a value, used by intrinsics that
// need to hand back a mutable alias into a compound value efficiently. Its
// target is unexported: outside this package (and its trusted callers in
// runtime/intrinsics) nothing can read or replace the pointee directly.
//
// The lifetime checker guarantees at the language level that a script
// never captures an UnsafeRef across a `go` boundary; this type itself
// stays structurally transportable (it has no thread-unsafe fields) but
// must never actually be placed in a value handed to a spawned thread.
type UnsafeRef struct {
	ptr *Value
}

func (UnsafeRef) Kind() Kind { return KindUnsafeRef }
func (UnsafeRef) sealed()    {}

// NewUnsafeRef wraps ptr as an UnsafeRef. Reserved for trusted callers
// (the evaluator and intrinsics) that hold a live pointer into the stack
// or a container; never construct one from unvalidated host input.
func NewUnsafeRef(ptr *Value) UnsafeRef { return UnsafeRef{ptr: ptr} }

// Get dereferences the unsafe reference.
func (u UnsafeRef) Get() Value { return *u.ptr }

// Set overwrites the referenced value.
func (u UnsafeRef) Set(v Value) { *u.ptr = v }
