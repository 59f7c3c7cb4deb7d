package value

// Equal defines equality only between identical primitive variants (bool,
// number, text, array, object by structural equality); everything else —
// including Ref, UnsafeRef, Host, Return, and any cross-variant
// comparison, and even a Return compared to itself — is false. This is
// deliberate: script-level equality is performed after resolving
// references (spec.md 3.1, 8, 9).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.V == bv.V
	case F64:
		bv, ok := b.(F64)
		return ok && av.V == bv.V
	case Text:
		bv, ok := b.(Text)
		return ok && av.V == bv.V
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		return ok && av.Equal(bv)
	default:
		return false
	}
}
