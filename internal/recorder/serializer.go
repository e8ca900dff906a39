// Package recorder implements the emit-side pipeline: per-thread append
// buffers flushed into a single background serializer that drains the
// global submission queue, encodes events, and hands bytes to an output
// callback.
package recorder

import (
	"fmt"
	"sync"

	"tracewire/internal/clockhost"
	"tracewire/internal/logging"
	"tracewire/internal/trace"
	"tracewire/internal/wire"
)

// OutputFunc receives one serialized batch of bytes. It is invoked
// synchronously from the serializer's single background worker, so
// implementations need not be concurrency-safe with respect to each other
// — but must not block indefinitely, since flush() fences wait behind it.
type OutputFunc func(data []byte) error

// Serializer is the single background consumer of submitted events. It
// owns the submission queue, the submitted/flushed counters, and the
// output callback installed once via SetOutput.
type Serializer struct {
	host  clockhost.Host
	clock clockhost.Clock
	log   *logging.Logger

	queueMu   sync.Mutex
	queueCond *sync.Cond
	queue     []wire.Event
	submitted uint64

	flushMu   sync.Mutex
	flushCond *sync.Cond
	flushed   uint64

	outMu   sync.Mutex
	output  OutputFunc
	started bool

	stop chan struct{}
	done chan struct{}
}

// NewSerializer constructs a serializer bound to the supplied host/clock
// identity. The background worker does not start until SetOutput is
// called.
func NewSerializer(host clockhost.Host, clock clockhost.Clock, log *logging.Logger) *Serializer {
	if log == nil {
		log = logging.L()
	}
	s := &Serializer{
		host:  host,
		clock: clock,
		log:   log,
		queue: make([]wire.Event, 0, 1024),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	s.queueCond = sync.NewCond(&s.queueMu)
	s.flushCond = sync.NewCond(&s.flushMu)
	return s
}

// SetOutput installs the output callback, emits the file magic followed by
// the single Start event, and spawns the background worker. It is a
// one-shot initializer: calling it a second time returns an error rather
// than silently re-emitting the header, since doing so would corrupt the
// framing of an already-open trace file.
func (s *Serializer) SetOutput(output OutputFunc) error {
	s.outMu.Lock()
	if s.started {
		s.outMu.Unlock()
		return fmt.Errorf("recorder: output already installed")
	}
	s.output = output
	s.started = true
	s.outMu.Unlock()

	header := make([]byte, 0, 128)
	header = append(header, trace.Magic...)
	header = wire.Encode(wire.NewStart(s.host.Hostname(), s.clock.ReferenceUnixNanos(), s.host.ProcessID()), header)
	if err := output(header); err != nil {
		return fmt.Errorf("recorder: write start header: %w", err)
	}

	go s.run()
	return nil
}

// Submit hands a batch of events to the serializer, consuming buf: on an
// empty internal queue it adopts the caller's slice outright, otherwise
// it appends. It returns the new submitted counter value, which callers
// pass to Flush to fence on delivery of exactly the events they just
// submitted.
func (s *Serializer) Submit(buf []wire.Event) uint64 {
	size := uint64(len(buf))
	s.queueMu.Lock()
	if len(s.queue) == 0 {
		s.queue, buf = buf, s.queue
	} else {
		s.queue = append(s.queue, buf...)
	}
	s.submitted += size
	result := s.submitted
	s.queueCond.Signal()
	s.queueMu.Unlock()
	return result
}

// Flush blocks until the serializer has durably emitted every event up to
// and including target.
func (s *Serializer) Flush(target uint64) {
	s.flushMu.Lock()
	for s.flushed < target {
		s.flushCond.Wait()
	}
	s.flushMu.Unlock()
}

// Stop requests the background worker to exit and waits for it to do so.
// Any events already queued are drained before the worker exits.
func (s *Serializer) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.queueMu.Lock()
	s.queueCond.Broadcast()
	s.queueMu.Unlock()
	<-s.done
}

func (s *Serializer) stopRequested() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

func (s *Serializer) run() {
	defer close(s.done)
	raw := make([]byte, 0, 1024*128)
	for {
		s.queueMu.Lock()
		for len(s.queue) == 0 && !s.stopRequested() {
			s.queueCond.Wait()
		}
		if len(s.queue) == 0 && s.stopRequested() {
			s.queueMu.Unlock()
			return
		}
		batch := s.queue
		s.queue = make([]wire.Event, 0, 1024)
		s.queueMu.Unlock()

		raw = raw[:0]
		for _, ev := range batch {
			raw = wire.Encode(ev, raw)
		}
		if err := s.output(raw); err != nil {
			s.log.Warn("recorder sink write failed", logging.Error(err))
		}

		s.flushMu.Lock()
		s.flushed += uint64(len(batch))
		s.flushCond.Broadcast()
		s.flushMu.Unlock()
	}
}
