// Package wire defines the event model and binary wire codec shared by the
// recorder and the playback engine.
package wire

// Kind tags the closed set of event variants carried on the wire.
type Kind int32

const (
	// KindNone is a sentinel used only when a decode fails before a tag is
	// consumed; it never appears on the wire.
	KindNone Kind = -1

	KindStart      Kind = 0
	KindStartZone  Kind = 1
	KindEndZone    Kind = 2
	KindMessage    Kind = 3
	KindThreadName Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "Start"
	case KindStartZone:
		return "StartZone"
	case KindEndZone:
		return "EndZone"
	case KindMessage:
		return "Message"
	case KindThreadName:
		return "ThreadName"
	default:
		return "None"
	}
}

// Start appears exactly once, at the head of every stream. It carries no
// thread/time pair because it predates the emitting process's monotonic
// reference clock.
type Start struct {
	Host      string
	UnixTime  uint64
	ProcessID uint64
}

// StartZone opens a measured interval on a thread.
type StartZone struct {
	ThreadID uint64
	Time     uint64
	Color    uint32
	Line     uint32
	File     string
	Function string
	Name     string
}

// EndZone closes the most recently opened zone on a thread.
type EndZone struct {
	ThreadID uint64
	Time     uint64
}

// Message is a timestamped, optionally colored log line from a thread.
// Color 0 means "no color".
type Message struct {
	ThreadID uint64
	Time     uint64
	Text     string
	Color    uint32
}

// ThreadName assigns a human-readable name to a thread at a point in time.
type ThreadName struct {
	ThreadID uint64
	Time     uint64
	Name     string
}

// Event is a tagged sum over the five wire variants. Exactly one of the
// pointer fields is non-nil, selected by Kind.
type Event struct {
	Kind       Kind
	Start      *Start
	StartZone  *StartZone
	EndZone    *EndZone
	Message    *Message
	ThreadName *ThreadName
}

// ThreadID returns the owning thread for every variant except Start, which
// has none.
func (e Event) ThreadID() (uint64, bool) {
	switch e.Kind {
	case KindStartZone:
		return e.StartZone.ThreadID, true
	case KindEndZone:
		return e.EndZone.ThreadID, true
	case KindMessage:
		return e.Message.ThreadID, true
	case KindThreadName:
		return e.ThreadName.ThreadID, true
	default:
		return 0, false
	}
}

// Time returns the monotonic-reference timestamp for every variant except
// Start, which carries UnixTime instead.
func (e Event) Time() (uint64, bool) {
	switch e.Kind {
	case KindStartZone:
		return e.StartZone.Time, true
	case KindEndZone:
		return e.EndZone.Time, true
	case KindMessage:
		return e.Message.Time, true
	case KindThreadName:
		return e.ThreadName.Time, true
	default:
		return 0, false
	}
}

// NewStart constructs a Start event.
func NewStart(host string, unixTime, processID uint64) Event {
	return Event{Kind: KindStart, Start: &Start{Host: host, UnixTime: unixTime, ProcessID: processID}}
}

// NewStartZone constructs a StartZone event.
func NewStartZone(color, line uint32, file, function, name string, threadID, t uint64) Event {
	return Event{Kind: KindStartZone, StartZone: &StartZone{
		ThreadID: threadID, Time: t, Color: color, Line: line, File: file, Function: function, Name: name,
	}}
}

// NewEndZone constructs an EndZone event.
func NewEndZone(threadID, t uint64) Event {
	return Event{Kind: KindEndZone, EndZone: &EndZone{ThreadID: threadID, Time: t}}
}

// NewMessage constructs a Message event.
func NewMessage(text string, color uint32, threadID, t uint64) Event {
	return Event{Kind: KindMessage, Message: &Message{ThreadID: threadID, Time: t, Text: text, Color: color}}
}

// NewThreadName constructs a ThreadName event.
func NewThreadName(name string, threadID, t uint64) Event {
	return Event{Kind: KindThreadName, ThreadName: &ThreadName{ThreadID: threadID, Time: t, Name: name}}
}
