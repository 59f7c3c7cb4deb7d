package value

// In is the shared receiver half of a single-producer value channel —
// spec.md 3.1's "input channel" variant, the Go counterpart of the
// original's `In(Arc<Mutex<mpsc::Receiver<Variable>>>)`. Only the receiver
// is a value-model variant; the send half (Out) is a plain host-side
// handle, never itself a scriptable Value kind, matching the original.
type In struct {
	ch *inChan
}

type inChan struct {
	c chan Value
}

func (In) Kind() Kind { return KindIn }
func (In) sealed()    {}

// Out is the send half of a channel created by NewChannel. It is carried
// to scripts wrapped in a Host value (see runtime's channel intrinsic),
// since Go channel directionality can't round-trip through a bare
// interface type assertion the way an underlying bidirectional channel
// could.
type Out struct {
	c chan<- Value
}

// Send delivers v to the channel's receiver.
func (o Out) Send(v Value) {
	o.c <- v
}

// NewChannel creates a single-producer channel of the given buffer size
// and returns its send and receive ends.
func NewChannel(buffer int) (Out, In) {
	ic := &inChan{c: make(chan Value, buffer)}
	return Out{c: ic.c}, In{ch: ic}
}

// Recv blocks for the next value, reporting ok=false once the channel has
// been closed and drained.
func (i In) Recv() (Value, bool) {
	v, ok := <-i.ch.c
	return v, ok
}
