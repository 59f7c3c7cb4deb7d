package value

// DeepClone walks v per spec.md 3.1: containers (Array, Object) are made
// unique and recursed into; primitives, Vec4, Text, Link, Host, Thread,
// Closure, In and constructed Option/Result are cloned shallowly; a Ref
// resolves to its stack slot and deep-clones that.
//
// stack may be nil when v is known not to contain a Ref (e.g. cloning an
// already-resolved argument); a nil stack with a genuine Ref panics, same
// as indexing past a real stack would.
func DeepClone(v Value, stack Stack) Value {
	switch t := v.(type) {
	case Ref:
		return DeepClone(stack.At(t.Index), stack)
	case Return:
		return t
	case Bool:
		return t
	case F64:
		return t
	case Vec4:
		return t
	case Text:
		return t
	case Array:
		items := make([]Value, len(t.Items))
		for i, it := range t.Items {
			items[i] = DeepClone(it, stack)
		}
		return Array{Items: items}
	case Object:
		fields := make(map[string]Value, len(t.Fields))
		for k, it := range t.Fields {
			fields[k] = DeepClone(it, stack)
		}
		return Object{Fields: fields}
	case *Link:
		return t
	case UnsafeRef:
		panic("unsafe reference can not be cloned")
	case Host:
		return t
	case Option:
		// Constructed via Some(x), which already deep-clones x, so a
		// present Option never contains a Ref: shallow copy suffices.
		return t
	case Result:
		return t
	case Thread:
		return t.Clone()
	case Closure:
		return t
	case In:
		return t
	default:
		panic("deep_clone: unknown value kind")
	}
}
