package playback

import (
	"container/heap"

	"tracewire/internal/logging"
	"tracewire/internal/trace"
)

// streamEntry pairs an active stream with the process identity extracted
// from its leading Start event, since every later event in that stream
// carries only a thread_id and relies on the stream's origin for routing.
// log is scoped to this stream's source path (see Coordinator.AddStream)
// so every diagnostic tied to it, including those from the worker it
// feeds, carries a trace ID correlating back to the file it came from.
type streamEntry struct {
	stream  *trace.Stream
	process ProcessInfo
	log     *logging.Logger
}

// streamHeap is a min-heap over streamEntry ordered by each stream's
// NanosecondsSincePosix, giving the scheduler O(log n) access to the
// stream with the earliest pending event.
type streamHeap []*streamEntry

func (h streamHeap) Len() int { return len(h) }

func (h streamHeap) Less(i, j int) bool {
	return h[i].stream.NanosecondsSincePosix() < h[j].stream.NanosecondsSincePosix()
}

func (h streamHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *streamHeap) Push(x any) {
	*h = append(*h, x.(*streamEntry))
}

func (h *streamHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

var _ = heap.Interface(&streamHeap{})
