package scheduler

// Frame carries per-tick state to every task run during one Scheduler tick.
type Frame struct {
	Tick      uint64
	DeltaTime float64
	Phase     *Phase

	defers []func()
}

func newFrame(tick uint64, dt float64) *Frame {
	return &Frame{
		Tick:      tick,
		DeltaTime: dt,
	}
}

// Defer queues fn to run after every phase of the current tick has finished.
// Use it for structural changes, like disposing actors, that must not
// interleave with the tasks of the tick.
func (f *Frame) Defer(fn func()) {
	f.defers = append(f.defers, fn)
}

// flush runs deferred functions in queue order. Functions deferred while
// flushing run in the same flush.
func (f *Frame) flush() {
	for i := 0; i < len(f.defers); i++ {
		f.defers[i]()
	}
	f.defers = f.defers[:0]
}
