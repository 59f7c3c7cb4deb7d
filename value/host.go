package value

import "sync"

// Host is an opaque, shared, mutex-guarded handle to a host-supplied Go
// value, the equivalent of Dyon's RustObject = Arc<Mutex<Any>>.
type Host struct {
	guard *hostGuard
}

type hostGuard struct {
	mu  sync.Mutex
	obj interface{}
}

func (Host) Kind() Kind { return KindHost }
func (Host) sealed()    {}

// NewHost wraps an arbitrary host value as a shared, mutex-guarded Host.
func NewHost(obj interface{}) Host {
	return Host{guard: &hostGuard{obj: obj}}
}

// With runs fn with exclusive access to the wrapped host object.
func (h Host) With(fn func(obj interface{}) interface{}) {
	h.guard.mu.Lock()
	defer h.guard.mu.Unlock()
	h.guard.obj = fn(h.guard.obj)
}

// Get returns the current wrapped value under lock.
func (h Host) Get() interface{} {
	h.guard.mu.Lock()
	defer h.guard.mu.Unlock()
	return h.guard.obj
}
