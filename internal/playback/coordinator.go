// Package playback implements the replay side of the pipeline: a merge
// scheduler that reads one or more recorded streams in timestamp order and
// fans their events out to per-thread workers which deliver them,
// strictly ordered, to a profiler sink.
package playback

import (
	"container/heap"
	"context"
	"fmt"
	"math"
	"sync"

	"tracewire/internal/logging"
	"tracewire/internal/sink"
	"tracewire/internal/trace"
	"tracewire/internal/wire"
)

// workerKey identifies a single playback worker by the (host, process,
// thread) triple its events originate from.
type workerKey struct {
	Host      string
	ProcessID uint64
	ThreadID  uint64
}

// Coordinator owns the stream priority queue, the worker map, and the
// minimum unix_time rebase origin across every stream added before Play
// runs. It is the single point of entry for driving a replay.
type Coordinator struct {
	sink      sink.Sink
	clock     ReplayClock
	allocator *ThreadGroupAllocator
	log       *logging.Logger

	heap        streamHeap
	minUnixTime uint64

	workersMu sync.Mutex
	workers   map[workerKey]*Worker
}

// NewCoordinator constructs an empty Coordinator. clock may be nil, in
// which case WallClock is used (a plain nanosecond time domain, matching
// LoggingSink and any other sink with no native tick counter of its own).
func NewCoordinator(s sink.Sink, clock ReplayClock, log *logging.Logger) *Coordinator {
	if clock == nil {
		clock = WallClock{}
	}
	if log == nil {
		log = logging.L()
	}
	return &Coordinator{
		sink:        s,
		clock:       clock,
		allocator:   NewThreadGroupAllocator(),
		log:         log,
		minUnixTime: math.MaxUint64,
		workers:     make(map[workerKey]*Worker),
	}
}

// AddStream constructs a stream reader over source, validates that it
// begins with a Start event, and enqueues it for the next Play call.
// Streams whose first event is not a Start are rejected here rather than
// at playback time: they are never enqueued, and a diagnostic is logged.
func (c *Coordinator) AddStream(source wire.ByteReader, name string) error {
	s := trace.NewStream(source, name)

	first, ok := s.Peek()
	if !ok {
		c.log.Warn("stream has no events, skipping", logging.String("stream", name))
		return nil
	}
	if first.Kind != wire.KindStart {
		c.log.Warn("stream does not begin with a Start event, rejecting",
			logging.String("stream", name))
		return nil
	}

	start := first.Start
	process := ProcessInfo{Host: start.Host, ProcessID: start.ProcessID}
	if start.UnixTime < c.minUnixTime {
		c.minUnixTime = start.UnixTime
	}

	// Consume the leading Start: it has already been accounted for via
	// process/minUnixTime and must never reach a worker.
	if _, ok := s.Pop(); !ok {
		return fmt.Errorf("playback: stream %q: failed to consume Start event", name)
	}

	// Scope a logger to this stream's source path: every diagnostic
	// produced while draining this stream, including the worker it feeds,
	// carries name as a trace ID so a multi-stream replay's log lines can
	// be correlated back to the file that produced them.
	ctx := logging.ContextWithLogger(context.Background(), c.log)
	_, streamLog, _ := logging.WithTrace(ctx, logging.LoggerFromContext(ctx), name)

	if _, ok := s.Peek(); ok {
		heap.Push(&c.heap, &streamEntry{stream: s, process: process, log: streamLog})
	}
	return nil
}

// Play drains the stream priority queue, routing every event to its
// worker in non-decreasing wall-clock order, rebasing each to the replay
// clock's domain. It returns once every added stream is exhausted, or
// immediately if no streams were successfully added. trace toggles
// per-event diagnostic logging.
func (c *Coordinator) Play(trace bool) error {
	if c.heap.Len() == 0 {
		return nil
	}

	origin := c.clock.Now()
	scale := c.clock.NanosecondScale()
	minUnixTime := c.minUnixTime

	for c.heap.Len() > 0 {
		entry := heap.Pop(&c.heap).(*streamEntry)

		wall := entry.stream.NanosecondsSincePosix()
		ev, ok := entry.stream.Pop()
		if !ok {
			continue
		}

		if ev.Kind == wire.KindStart {
			return fmt.Errorf("playback: unexpected Start event mid-stream %q", entry.stream.Name())
		}

		localTime := origin + uint64(float64(wall-minUnixTime)*scale)

		threadID, _ := ev.ThreadID()
		key := workerKey{Host: entry.process.Host, ProcessID: entry.process.ProcessID, ThreadID: threadID}
		worker := c.workerFor(key, entry.process, entry.log)

		if trace {
			entry.log.Debug("dispatching event",
				logging.String("host", entry.process.Host),
				logging.Int64("process_id", int64(entry.process.ProcessID)),
				logging.Int64("thread_id", int64(threadID)),
				logging.Int64("local_time", int64(localTime)),
				logging.Int("kind", int(ev.Kind)))
		}

		worker.Submit(ev, localTime)

		if _, ok := entry.stream.Peek(); ok {
			heap.Push(&c.heap, entry)
		}
	}

	return nil
}

// workerFor returns the worker for key, lazily creating it bound to log
// (the requesting stream's scoped logger). The coordinator's worker map is
// single-writer (only Play, which runs on one goroutine), so no lock would
// strictly be required for correctness, but one is kept for symmetry with
// Close running concurrently during shutdown in a long-lived replay host.
func (c *Coordinator) workerFor(key workerKey, process ProcessInfo, log *logging.Logger) *Worker {
	c.workersMu.Lock()
	defer c.workersMu.Unlock()
	if w, ok := c.workers[key]; ok {
		return w
	}
	w := NewWorker(process, key.ThreadID, c.sink, c.allocator, log)
	c.workers[key] = w
	return w
}

// Close stops every worker spawned during playback. The scheduler
// guarantees the priority queue is empty before Play returns, so every
// worker's mailbox is empty by the time Close runs — there is no drain
// to perform, only shutdown.
func (c *Coordinator) Close() {
	c.workersMu.Lock()
	workers := make([]*Worker, 0, len(c.workers))
	for _, w := range c.workers {
		workers = append(workers, w)
	}
	c.workersMu.Unlock()

	for _, w := range workers {
		w.Stop()
	}
}
