package playback

import (
	"fmt"
	"sync"

	"tracewire/internal/logging"
	"tracewire/internal/sink"
	"tracewire/internal/wire"
)

// mailboxItem is the single slot a Worker's mailbox can hold at a time.
type mailboxItem struct {
	event        wire.Event
	adjustedTime uint64
}

// Worker is the playback engine's per-(host, process, thread) delivery
// point. It owns a single-slot mailbox and a processed-event counter; the
// Submit handshake built on top of them guarantees the scheduler never
// dispatches event n+1 until event n has been fully delivered to the sink,
// which in turn keeps the sink's view of time strictly ordered across all
// threads since the scheduler is itself single-threaded.
type Worker struct {
	process   ProcessInfo
	threadID  uint64
	sink      sink.Sink
	allocator *ThreadGroupAllocator
	log       *logging.Logger

	mailboxMu   sync.Mutex
	mailboxCond *sync.Cond
	mailbox     *mailboxItem

	processedMu   sync.Mutex
	processedCond *sync.Cond
	processed     uint64

	nameSetExplicitly bool

	stop chan struct{}
	done chan struct{}
}

// NewWorker constructs and starts a worker for the given stream origin and
// thread ID. The caller must eventually call Stop.
func NewWorker(process ProcessInfo, threadID uint64, s sink.Sink, allocator *ThreadGroupAllocator, log *logging.Logger) *Worker {
	if log == nil {
		log = logging.L()
	}
	w := &Worker{
		process:   process,
		threadID:  threadID,
		sink:      s,
		allocator: allocator,
		log:       log,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	w.mailboxCond = sync.NewCond(&w.mailboxMu)
	w.processedCond = sync.NewCond(&w.processedMu)
	go w.run()
	return w
}

// Submit hands ev to the worker and blocks until the worker has fully
// delivered it to the sink. The processed-counter lock is acquired before
// the mailbox lock (mailbox locking nested inside it); the worker loop
// never holds the mailbox lock while taking the processed-counter lock,
// so the two can never deadlock against each other. Submit is meant to be
// driven by the single scheduler goroutine — the handshake serializes
// events, not callers, and concurrent Submits would race for the
// single-slot mailbox.
func (w *Worker) Submit(ev wire.Event, adjustedTime uint64) {
	w.processedMu.Lock()
	myTicket := w.processed + 1

	w.mailboxMu.Lock()
	w.mailbox = &mailboxItem{event: ev, adjustedTime: adjustedTime}
	w.mailboxCond.Signal()
	w.mailboxMu.Unlock()

	for w.processed < myTicket {
		w.processedCond.Wait()
	}
	w.processedMu.Unlock()
}

// Stop requests the worker to exit and waits for it to do so, performing
// the name-on-exit fallback if no ThreadName event ever set the sink-side
// name explicitly.
func (w *Worker) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	w.mailboxMu.Lock()
	w.mailboxCond.Broadcast()
	w.mailboxMu.Unlock()
	<-w.done
}

func (w *Worker) stopRequested() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		w.mailboxMu.Lock()
		for w.mailbox == nil && !w.stopRequested() {
			w.mailboxCond.Wait()
		}
		if w.mailbox == nil && w.stopRequested() {
			w.mailboxMu.Unlock()
			break
		}
		item := w.mailbox
		w.mailbox = nil
		w.mailboxMu.Unlock()

		if w.handleEvent(item.event, item.adjustedTime) {
			w.nameSetExplicitly = true
		}

		w.processedMu.Lock()
		w.processed++
		w.processedCond.Signal()
		w.processedMu.Unlock()
	}

	if !w.nameSetExplicitly {
		name := fmt.Sprintf("%s_%d_%d", w.process.Host, w.process.ProcessID, w.threadID)
		w.sink.SetThreadNameWithHint(name, w.allocator.Allocate(w.process))
	}
}

// handleEvent dispatches one event to the sink, reporting whether it
// explicitly named the thread (only a ThreadName event does).
func (w *Worker) handleEvent(ev wire.Event, adjustedTime uint64) bool {
	switch ev.Kind {
	case wire.KindStart:
		w.log.Warn("unexpected Start event routed to worker",
			logging.String("host", w.process.Host),
			logging.Int64("process_id", int64(w.process.ProcessID)),
			logging.Int64("thread_id", int64(w.threadID)))
		return false

	case wire.KindStartZone:
		e := ev.StartZone
		loc := sink.SourceLocation{Line: e.Line, File: e.File, Function: e.Function, Name: e.Name, Color: e.Color}
		handle := w.sink.AllocateSourceLocation(loc)
		w.sink.ZoneBegin(adjustedTime, handle)
		return false

	case wire.KindEndZone:
		w.sink.ZoneEnd(adjustedTime)
		return false

	case wire.KindMessage:
		e := ev.Message
		if len(e.Text) > sink.MaxMessageBytes {
			w.log.Warn("dropping oversized message",
				logging.Int("length", len(e.Text)),
				logging.Int("limit", sink.MaxMessageBytes))
			return false
		}
		if e.Color == 0 {
			w.sink.Message(adjustedTime, e.Text)
		} else {
			b := uint8(e.Color & 0xFF)
			g := uint8((e.Color >> 8) & 0xFF)
			r := uint8((e.Color >> 16) & 0xFF)
			w.sink.MessageColored(adjustedTime, e.Text, r, g, b)
		}
		return false

	case wire.KindThreadName:
		e := ev.ThreadName
		name := fmt.Sprintf("%s: %s_%d_%d", e.Name, w.process.Host, w.process.ProcessID, w.threadID)
		w.sink.SetThreadNameWithHint(name, w.allocator.Allocate(w.process))
		return true

	default:
		w.log.Warn("unknown event kind in worker", logging.Int("kind", int(ev.Kind)))
		return false
	}
}
