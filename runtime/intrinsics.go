package runtime

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dyon-lang/dyon/value"
)

// callIntrinsic dispatches a resolved intrinsic index to its
// implementation. The index must agree with prelude.NewIntrinsics's Order
// — see that function's doc comment for the shared contract.
func (rt *Runtime) callIntrinsic(idx int, args []value.Value, module *Module) (value.Value, error) {
	switch idx {
	case 0: // len
		return intrinsicLen(args)
	case 1: // push
		return intrinsicPush(args)
	case 2: // pop
		return intrinsicPop(args)
	case 3: // clone
		return value.DeepClone(args[0], rt.Stack), nil
	case 4: // unwrap
		return intrinsicUnwrap(args)
	case 5: // unwrap_err
		return intrinsicUnwrapErr(args)
	case 6: // is_some
		return intrinsicIsSome(args)
	case 7: // is_none
		o, ok := args[0].(value.Option)
		if !ok {
			return nil, fmt.Errorf("%s", rt.Expected(args[0], "option"))
		}
		return value.B(!o.Present), nil
	case 8: // is_ok
		r, ok := args[0].(value.Result)
		if !ok {
			return nil, fmt.Errorf("%s", rt.Expected(args[0], "result"))
		}
		return value.B(r.Ok), nil
	case 9: // is_err
		r, ok := args[0].(value.Result)
		if !ok {
			return nil, fmt.Errorf("%s", rt.Expected(args[0], "result"))
		}
		return value.B(!r.Ok), nil
	case 10, 11, 12, 13: // vec4_x, vec4_y, vec4_z, vec4_w
		v4, ok := args[0].(value.Vec4)
		if !ok {
			return nil, fmt.Errorf("%s", rt.Expected(args[0], "vec4"))
		}
		return value.F(float64(v4.V[idx-10])), nil
	case 14: // link_push
		l, ok := args[0].(*value.Link)
		if !ok {
			return nil, fmt.Errorf("%s", rt.Expected(args[0], "link"))
		}
		return l.PushBack(value.DeepClone(args[1], rt.Stack)), nil
	case 15: // link_concat
		a, ok := args[0].(*value.Link)
		if !ok {
			return nil, fmt.Errorf("%s", rt.Expected(args[0], "link"))
		}
		b, ok := args[1].(*value.Link)
		if !ok {
			return nil, fmt.Errorf("%s", rt.Expected(args[1], "link"))
		}
		return a.Concat(b), nil
	case 16: // keys
		return intrinsicKeys(args, rt)
	case 17: // has
		return intrinsicHas(args, rt)
	case 18: // remove
		o, ok := args[0].(value.Object)
		if !ok {
			return nil, fmt.Errorf("%s", rt.Expected(args[0], "object"))
		}
		key, ok := args[1].(value.Text)
		if !ok {
			return nil, fmt.Errorf("%s", rt.Expected(args[1], "str"))
		}
		return o.Delete(key.V), nil
	case 19: // join
		return intrinsicJoin(args, rt)
	case 20: // print
		fmt.Print(displayValue(args[0]))
		return nil, nil
	case 21: // println
		fmt.Println(displayValue(args[0]))
		return nil, nil
	case 22: // typeof
		return value.Str(rt.Resolve(args[0]).Kind().String()), nil
	case 23: // channel
		out, in := value.NewChannel(8)
		return value.Arr([]value.Value{value.NewHost(out), in}), nil
	}
	return nil, fmt.Errorf("unimplemented intrinsic #%d", idx)
}

func intrinsicLen(args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Array:
		return value.F(float64(len(v.Items))), nil
	case *value.Link:
		return value.F(float64(v.Len())), nil
	case value.Text:
		return value.F(float64(len([]rune(v.V)))), nil
	case value.Object:
		return value.F(float64(len(v.Fields))), nil
	}
	return nil, fmt.Errorf("expected array, link, str or object, got %s", args[0].Kind())
}

func intrinsicPush(args []value.Value) (value.Value, error) {
	a, ok := args[0].(value.Array)
	if !ok {
		return nil, fmt.Errorf("expected array, got %s", args[0].Kind())
	}
	return a.Push(value.DeepClone(args[1], nil)), nil
}

func intrinsicPop(args []value.Value) (value.Value, error) {
	a, ok := args[0].(value.Array)
	if !ok {
		return nil, fmt.Errorf("expected array, got %s", args[0].Kind())
	}
	rest, popped, ok := a.Pop()
	if !ok {
		return value.None(), nil
	}
	return value.Some(value.Arr([]value.Value{rest, popped})), nil
}

func intrinsicUnwrap(args []value.Value) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Option:
		if !v.Present {
			return nil, fmt.Errorf("tried to unwrap none")
		}
		return v.Inner, nil
	case value.Result:
		if !v.Ok {
			return nil, fmt.Errorf("tried to unwrap an error: %s", v.Err.Error())
		}
		return v.Value, nil
	}
	return nil, fmt.Errorf("expected option or result, got %s", args[0].Kind())
}

func intrinsicUnwrapErr(args []value.Value) (value.Value, error) {
	r, ok := args[0].(value.Result)
	if !ok {
		return nil, fmt.Errorf("expected result, got %s", args[0].Kind())
	}
	if r.Ok {
		return nil, fmt.Errorf("tried to unwrap_err an ok value")
	}
	return r.Err.Message, nil
}

func intrinsicIsSome(args []value.Value) (value.Value, error) {
	o, ok := args[0].(value.Option)
	if !ok {
		return nil, fmt.Errorf("expected option, got %s", args[0].Kind())
	}
	return value.B(o.Present), nil
}

func intrinsicKeys(args []value.Value, rt *Runtime) (value.Value, error) {
	o, ok := args[0].(value.Object)
	if !ok {
		return nil, fmt.Errorf("%s", rt.Expected(args[0], "object"))
	}
	names := make([]string, 0, len(o.Fields))
	for k := range o.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	items := make([]value.Value, len(names))
	for i, k := range names {
		items[i] = value.Str(k)
	}
	return value.Arr(items), nil
}

func intrinsicHas(args []value.Value, rt *Runtime) (value.Value, error) {
	o, ok := args[0].(value.Object)
	if !ok {
		return nil, fmt.Errorf("%s", rt.Expected(args[0], "object"))
	}
	key, ok := args[1].(value.Text)
	if !ok {
		return nil, fmt.Errorf("%s", rt.Expected(args[1], "str"))
	}
	_, present := o.Fields[key.V]
	return value.B(present), nil
}

func intrinsicJoin(args []value.Value, rt *Runtime) (value.Value, error) {
	a, ok := args[0].(value.Array)
	if !ok {
		return nil, fmt.Errorf("%s", rt.Expected(args[0], "array"))
	}
	parts := make([]string, len(a.Items))
	for i, it := range a.Items {
		t, ok := it.(value.Text)
		if !ok {
			return nil, fmt.Errorf("%s", rt.Expected(it, "str"))
		}
		parts[i] = t.V
	}
	return value.Str(strings.Join(parts, "")), nil
}

// displayValue renders a value for print/println, the way the original's
// Display impl does for scripts: booleans, numbers and strings bare, a vec4
// as a parenthesized tuple, everything else by its type name.
func displayValue(v value.Value) string {
	switch t := v.(type) {
	case value.Bool:
		return fmt.Sprintf("%v", t.V)
	case value.F64:
		return fmt.Sprintf("%v", t.V)
	case value.Text:
		return t.V
	case value.Vec4:
		return fmt.Sprintf("(%v, %v, %v, %v)", t.V[0], t.V[1], t.V[2], t.V[3])
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}
