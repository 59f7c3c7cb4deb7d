// Package embed is the call bridge (C4): a small builder host code uses to
// invoke a loaded module's functions without touching value.Value or
// runtime.Runtime directly, mirroring lib.rs's Call/PushVariable/
// PopVariable/ConvertVec4 embedding surface.
package embed

import (
	"fmt"

	"github.com/dyon-lang/dyon/runtime"
	"github.com/dyon-lang/dyon/value"
)

// PushVariable lets a host type supply its own marshalling into a
// value.Value, bypassing the built-in float64/bool/string/[4]float32
// conversions Arg otherwise applies.
type PushVariable interface {
	Push() value.Value
}

// ConvertVec4 lets a host type supply its own four-component conversion,
// for Vec4-shaped types that aren't already a plain [4]float32.
type ConvertVec4 interface {
	Vec4() [4]float32
}

// Call builds one function invocation: a name plus a list of arguments
// accumulated with Arg/Vec4/Rust, run against a module with Run, RunRet or
// RunVec4.
type Call struct {
	name string
	args []value.Value
	err  error
}

// New starts a call to the function named name.
func New(name string) *Call {
	return &Call{name: name}
}

// Arg marshals v into the next argument. Supported built-ins are float64,
// float32, int, bool, string and [4]float32; anything implementing
// PushVariable or ConvertVec4 is marshalled through that instead. An
// unsupported type poisons the Call, surfaced when it is finally run.
func (c *Call) Arg(v interface{}) *Call {
	if c.err != nil {
		return c
	}
	val, err := marshal(v)
	if err != nil {
		c.err = err
		return c
	}
	c.args = append(c.args, val)
	return c
}

// Args returns the arguments accumulated so far, for callers (such as a
// REPL) that build a Call only to marshal arguments and then invoke the
// runtime directly instead of going through Run/RunRet.
func (c *Call) Args() []value.Value {
	return c.args
}

// Vec4 appends a four-component vector argument directly.
func (c *Call) Vec4(x, y, z, w float32) *Call {
	c.args = append(c.args, value.V4(x, y, z, w))
	return c
}

// Rust appends obj as an opaque, mutex-guarded host object argument (the
// role RustObject plays in the original).
func (c *Call) Rust(obj interface{}) *Call {
	c.args = append(c.args, value.NewHost(obj))
	return c
}

// Run invokes the call against module, discarding any return value.
func (c *Call) Run(module *runtime.Module) error {
	if c.err != nil {
		return c.err
	}
	rt := runtime.NewRuntime()
	return rt.CallStr(c.name, c.args, module)
}

// RunVec4 invokes the call and requires the result to be a vec4.
func (c *Call) RunVec4(module *runtime.Module) ([4]float32, error) {
	if c.err != nil {
		return [4]float32{}, c.err
	}
	rt := runtime.NewRuntime()
	v, err := rt.CallStrRet(c.name, c.args, module)
	if err != nil {
		return [4]float32{}, err
	}
	v4, ok := v.(value.Vec4)
	if !ok {
		return [4]float32{}, fmt.Errorf("%s", rt.Expected(v, "vec4"))
	}
	return v4.V, nil
}

// RunRet invokes the call and unmarshals the result into T (one of
// float64, bool, string, or [4]float32).
func RunRet[T any](c *Call, module *runtime.Module) (T, error) {
	var zero T
	if c.err != nil {
		return zero, c.err
	}
	rt := runtime.NewRuntime()
	v, err := rt.CallStrRet(c.name, c.args, module)
	if err != nil {
		return zero, err
	}
	raw, err := unmarshalAny(v)
	if err != nil {
		return zero, err
	}
	out, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("expected return type %T, got %T", zero, raw)
	}
	return out, nil
}

func marshal(v interface{}) (value.Value, error) {
	if pv, ok := v.(PushVariable); ok {
		return pv.Push(), nil
	}
	if cv, ok := v.(ConvertVec4); ok {
		c := cv.Vec4()
		return value.V4(c[0], c[1], c[2], c[3]), nil
	}
	switch t := v.(type) {
	case float64:
		return value.F(t), nil
	case float32:
		return value.F(float64(t)), nil
	case int:
		return value.F(float64(t)), nil
	case bool:
		return value.B(t), nil
	case string:
		return value.Str(t), nil
	case [4]float32:
		return value.V4(t[0], t[1], t[2], t[3]), nil
	}
	return nil, fmt.Errorf("embed: unsupported argument type %T", v)
}

func unmarshalAny(v value.Value) (interface{}, error) {
	switch t := v.(type) {
	case value.F64:
		return t.V, nil
	case value.Bool:
		return t.V, nil
	case value.Text:
		return t.V, nil
	case value.Vec4:
		return t.V, nil
	}
	return nil, fmt.Errorf("embed: unsupported return value kind %s", v.Kind())
}
