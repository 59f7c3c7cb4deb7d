package value

import (
	"math"
	"strings"
	"testing"
	"unsafe"
)

func TestValueSize(t *testing.T) {
	var v Value = F64{V: 1}
	if got := unsafe.Sizeof(v); got > 24 {
		t.Errorf("sizeof(Value) = %d, want <= 24", got)
	}
}

func TestEqualityReflexiveForPrimitives(t *testing.T) {
	cases := []Value{B(true), F(1.5), Str("hi"), Arr([]Value{F(1)}), Obj(map[string]Value{"a": F(1)})}
	for _, v := range cases {
		if !Equal(v, v) {
			t.Errorf("%#v == itself should be true", v)
		}
	}
}

func TestEqualityNaNBreaksReflexivity(t *testing.T) {
	nan := F(math.NaN())
	if Equal(nan, nan) {
		t.Error("NaN should not equal itself")
	}
}

func TestEqualityRejectsReferences(t *testing.T) {
	cases := []struct {
		a, b Value
	}{
		{Ref{Index: 0}, Ref{Index: 0}},
		{UnsafeRef{}, UnsafeRef{}},
		{NewHost(1), NewHost(1)},
		{Return{}, Return{}},
		{Return{}, F(1)},
		{F(1), Ref{Index: 0}},
	}
	for _, c := range cases {
		if Equal(c.a, c.b) {
			t.Errorf("Equal(%#v, %#v) should be false", c.a, c.b)
		}
	}
}

func TestDeepCloneIndependence(t *testing.T) {
	inner := Arr([]Value{F(1), F(2)})
	v := Arr([]Value{inner})
	w := DeepClone(v, nil)

	wArr := w.(Array)
	wInner := wArr.Items[0].(Array)
	wInner2 := wInner.Push(F(3))
	wArr.Items[0] = wInner2

	vArr := v.(Array)
	vInner := vArr.Items[0].(Array)
	if len(vInner.Items) != 2 {
		t.Errorf("mutating clone affected original: len = %d, want 2", len(vInner.Items))
	}
}

func TestDeepCloneResolvesRef(t *testing.T) {
	stack := Stack{Arr([]Value{F(1)})}
	cloned := DeepClone(Ref{Index: 0}, stack)
	arr, ok := cloned.(Array)
	if !ok || len(arr.Items) != 1 {
		t.Fatalf("expected cloned array, got %#v", cloned)
	}
}

func TestThreadInvalidateDoubleFails(t *testing.T) {
	th := NewThread(func() ThreadResult { return ThreadResult{Value: F(1)} })
	ch, err := th.Invalidate()
	if err != nil {
		t.Fatalf("first invalidate: %v", err)
	}
	<-ch
	_, err = th.Invalidate()
	if err == nil || err.Error() != "The Thread has already been invalidated" {
		t.Fatalf("second invalidate: got %v", err)
	}
}

func TestThreadInvalidateAliasedFails(t *testing.T) {
	th := NewThread(func() ThreadResult { return ThreadResult{Value: F(1)} })
	aliased := DeepClone(th, nil).(Thread)
	_, err := th.Invalidate()
	if err == nil {
		t.Fatal("expected aliased invalidate to fail")
	}
	if !strings.Contains(err.Error(), "more than one reference") {
		t.Fatalf("expected aliasing diagnostic, got %v", err)
	}
	_ = aliased
}
