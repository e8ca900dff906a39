package trace

import (
	"tracewire/internal/wire"
)

// Stream wraps one byte source and lazily decodes the next event, keeping a
// single-event lookahead. It is the owner of its byte source and of the
// start_posix_time extracted from the stream's leading Start event.
type Stream struct {
	name           string
	reader         wire.ByteReader
	lookahead      *wire.Event
	startPosixTime uint64
	exhausted      bool
}

// NewStream constructs a stream over source, eagerly decoding the first
// event so Peek is valid immediately after construction.
func NewStream(source wire.ByteReader, name string) *Stream {
	s := &Stream{name: name, reader: source}
	s.queryNextEvent()
	return s
}

// Name returns the human-readable identifier for this stream (typically a
// file path), used only for diagnostics.
func (s *Stream) Name() string {
	return s.name
}

// Peek returns the currently buffered lookahead event without consuming it.
func (s *Stream) Peek() (wire.Event, bool) {
	if s.lookahead == nil {
		return wire.Event{}, false
	}
	return *s.lookahead, true
}

// Pop returns the buffered lookahead event and advances the lookahead by
// decoding exactly one further event. queryNextEvent runs exactly once per
// Pop, after the buffered event is taken, so Pop never reads past the
// event Peek had shown plus its replacement.
func (s *Stream) Pop() (wire.Event, bool) {
	if s.lookahead == nil {
		return wire.Event{}, false
	}
	ev := *s.lookahead
	s.lookahead = nil
	s.queryNextEvent()
	return ev, true
}

// NanosecondsSincePosix returns, for the currently peeked event, its
// absolute wall time expressed as nanoseconds since the Unix epoch: the
// event's own UnixTime if it is the Start event, otherwise its Time offset
// added to the stream's cached start_posix_time. When no event is buffered
// (the stream is exhausted) it returns start_posix_time so an exhausted
// stream sorts at its own start time rather than spuriously before
// everything else.
func (s *Stream) NanosecondsSincePosix() uint64 {
	if s.lookahead == nil {
		return s.startPosixTime
	}
	ev := *s.lookahead
	if ev.Kind == wire.KindStart {
		return ev.Start.UnixTime
	}
	t, _ := ev.Time()
	return t + s.startPosixTime
}

// Exhausted reports whether the stream has no further events to deliver.
func (s *Stream) Exhausted() bool {
	return s.lookahead == nil && s.exhausted
}

func (s *Stream) queryNextEvent() {
	if s.lookahead == nil && !s.exhausted {
		ev, ok := wire.Decode(s.reader)
		if !ok {
			s.exhausted = true
		} else {
			s.lookahead = &ev
		}
	}
	if s.lookahead != nil && s.lookahead.Kind == wire.KindStart {
		s.startPosixTime = s.lookahead.Start.UnixTime
	}
}
