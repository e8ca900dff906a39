package recorder

import (
	"tracewire/internal/clockhost"
	"tracewire/internal/wire"
)

// threadBufferCapacity preallocates each thread's append buffer.
const threadBufferCapacity = 1024

// ThreadBuffer is the per-emitting-thread append-only event buffer. It is
// owned by exactly one logical thread of execution and must not be shared
// across goroutines — emission never blocks because it only appends to a
// private slice.
//
// Go exposes no stable goroutine identifier, so callers supply threadID
// explicitly; any value stable and unique per logical emitter (a counter,
// a hash of a worker name) satisfies the wire contract, which only
// requires the value to be an opaque uint64.
type ThreadBuffer struct {
	threadID   uint64
	clock      clockhost.Clock
	serializer *Serializer
	data       []wire.Event
}

// NewThreadBuffer constructs a buffer for the given logical thread.
func NewThreadBuffer(threadID uint64, clock clockhost.Clock, serializer *Serializer) *ThreadBuffer {
	return &ThreadBuffer{
		threadID:   threadID,
		clock:      clock,
		serializer: serializer,
		data:       make([]wire.Event, 0, threadBufferCapacity),
	}
}

// NameThread records a ThreadName event for this thread.
func (b *ThreadBuffer) NameThread(name string) {
	b.data = append(b.data, wire.NewThreadName(name, b.threadID, b.clock.Since()))
}

// ZoneStart records the opening of a measured interval. Callers are
// responsible for zone balance — the recorder does not track nesting.
func (b *ThreadBuffer) ZoneStart(line uint32, file, function, name string, color uint32) {
	b.data = append(b.data, wire.NewStartZone(color, line, file, function, name, b.threadID, b.clock.Since()))
}

// ZoneEnd records the closing of the most recently opened zone.
func (b *ThreadBuffer) ZoneEnd() {
	b.data = append(b.data, wire.NewEndZone(b.threadID, b.clock.Since()))
}

// Message records a timestamped, optionally colored log line. color==0
// means uncolored.
func (b *ThreadBuffer) Message(text string, color uint32) {
	b.data = append(b.data, wire.NewMessage(text, color, b.threadID, b.clock.Since()))
}

// Flush submits the current buffer to the serializer and blocks until the
// serializer has durably emitted at least through this submission. The
// buffer's backing capacity is preserved for reuse by swapping in a fresh
// slice rather than truncating in place.
func (b *ThreadBuffer) Flush() {
	if len(b.data) == 0 {
		return
	}
	submitted := b.serializer.Submit(b.data)
	b.data = make([]wire.Event, 0, threadBufferCapacity)
	b.serializer.Flush(submitted)
}

// Close flushes any remaining events.
func (b *ThreadBuffer) Close() {
	b.Flush()
}
