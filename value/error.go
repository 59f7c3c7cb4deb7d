package value

import "strings"

// ScriptError is the payload of a script-facing Result's Err side: an
// arbitrary message value plus an ordered trace of frames, one appended
// per `?` propagation.
type ScriptError struct {
	Message Value
	Trace   []string
}

// WithFrame returns a copy of e with an additional trace frame appended,
// as the `?` operator does at each propagation point.
func (e *ScriptError) WithFrame(frame string) *ScriptError {
	trace := make([]string, 0, len(e.Trace)+1)
	trace = append(trace, e.Trace...)
	trace = append(trace, frame)
	return &ScriptError{Message: e.Message, Trace: trace}
}

// Error implements the standard error interface for host-facing use,
// formatting the message (if text) and the trace.
func (e *ScriptError) Error() string {
	var b strings.Builder
	if t, ok := e.Message.(Text); ok {
		b.WriteString(t.V)
	} else {
		b.WriteString("<error value>")
	}
	for _, f := range e.Trace {
		b.WriteString("\n")
		b.WriteString(f)
	}
	return b.String()
}

// Option is the absent/present sum type. A present Option always holds a
// fully-owned value (never a Ref), so deep-cloning a constructed Option is
// shallow — see DeepClone.
type Option struct {
	Present bool
	Inner   Value
}

func (Option) Kind() Kind { return KindOption }
func (Option) sealed()    {}

// None is the absent Option value.
func None() Value { return Option{} }

// Some constructs a present Option wrapping v.
func Some(v Value) Value { return Option{Present: true, Inner: v} }

// Result is the ok/err sum type. Like Option, a constructed Result always
// holds fully-owned values.
type Result struct {
	Ok    bool
	Value Value
	Err   *ScriptError
}

func (Result) Kind() Kind { return KindResult }
func (Result) sealed()    {}

// Ok constructs a successful Result.
func Ok(v Value) Value { return Result{Ok: true, Value: v} }

// Err constructs a failed Result.
func Err(e *ScriptError) Value { return Result{Err: e} }
