package value

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ThreadResult is what a spawned script thread reports back: a script
// Result<Value, String>, flattened for transport across the goroutine
// boundary.
type ThreadResult struct {
	Value Value
	Err   string
}

// Thread owns at most one join handle, behind a shared, mutex-guarded box.
// Cloning a Thread (via DeepClone, which is how the evaluator copies any
// variable) bumps a reference count; Invalidate refuses to hand out the
// handle while more than one reference is outstanding, mirroring
// Arc::try_unwrap in the original.
type Thread struct {
	box *threadBox
}

type threadBox struct {
	mu       sync.Mutex
	refs     int32
	result   chan ThreadResult // nil once extracted or invalidated
	poisoned bool
}

func (Thread) Kind() Kind { return KindThread }
func (Thread) sealed()    {}

// NewThread spawns work on a new goroutine and returns a Thread handle to
// its eventual result.
func NewThread(work func() ThreadResult) Thread {
	result := make(chan ThreadResult, 1)
	box := &threadBox{refs: 1, result: result}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				box.mu.Lock()
				box.poisoned = true
				box.mu.Unlock()
				result <- ThreadResult{Err: "thread panicked"}
			}
		}()
		result <- work()
	}()
	return Thread{box: box}
}

// Clone bumps the shared reference count and returns a Thread aliasing the
// same handle box. This is what Thread's deep-clone does: a cheap shallow
// copy of the shared handle, exactly like cloning an Arc.
func (t Thread) Clone() Thread {
	if t.box != nil {
		atomic.AddInt32(&t.box.refs, 1)
	}
	return t
}

// Invalidated reports whether the handle has already been extracted.
func (t Thread) Invalidated() bool {
	t.box.mu.Lock()
	defer t.box.mu.Unlock()
	return t.box.result == nil
}

// Invalidate extracts the join channel, failing if the handle is already
// absent, aliased by more than one outstanding reference, or poisoned.
func (t Thread) Invalidate() (chan ThreadResult, error) {
	t.box.mu.Lock()
	defer t.box.mu.Unlock()

	if t.box.poisoned {
		return nil, errors.New("thread mutex poisoned")
	}
	if t.box.result == nil {
		return nil, errors.New("The Thread has already been invalidated")
	}
	if atomic.LoadInt32(&t.box.refs) > 1 {
		return nil, errors.New("Can not access Thread because there is more than one reference to it")
	}
	ch := t.box.result
	t.box.result = nil
	return ch, nil
}
