package wire

import (
	"bufio"
	"encoding/binary"
	"io"
)

// byteOrder fixes the wire format to little-endian. Existing trace files
// carry raw in-memory integers from the recorders that wrote them, and
// every realistic producer (amd64, arm64) is little-endian, so fixing the
// byte order keeps decoding bit-exact without per-architecture build tags.
var byteOrder = binary.LittleEndian

// Encode appends the wire representation of ev to out and returns the
// extended slice.
func Encode(ev Event, out []byte) []byte {
	out = appendUint32(out, uint32(ev.Kind))
	switch ev.Kind {
	case KindStart:
		s := ev.Start
		out = appendString(out, s.Host)
		out = appendUint64(out, s.UnixTime)
		out = appendUint64(out, s.ProcessID)
	case KindStartZone:
		s := ev.StartZone
		out = appendUint64(out, s.Time)
		out = appendUint64(out, s.ThreadID)
		out = appendString(out, s.File)
		out = appendString(out, s.Function)
		out = appendString(out, s.Name)
		out = appendUint32(out, s.Line)
		out = appendUint32(out, s.Color)
	case KindEndZone:
		e := ev.EndZone
		out = appendUint64(out, e.Time)
		out = appendUint64(out, e.ThreadID)
	case KindMessage:
		m := ev.Message
		out = appendUint64(out, m.Time)
		out = appendUint64(out, m.ThreadID)
		out = appendString(out, m.Text)
	case KindThreadName:
		n := ev.ThreadName
		out = appendUint64(out, n.Time)
		out = appendUint64(out, n.ThreadID)
		out = appendString(out, n.Name)
	}
	return out
}

// ByteReader is the minimal surface the decoder needs from its source.
// *bufio.Reader satisfies it.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// Decode reads exactly one event from r. It returns ok=false on any short
// read (end of stream, truncation) or unknown tag; it never panics and
// never over-reads past what the tag it consumed specifies.
func Decode(r ByteReader) (Event, bool) {
	tag, ok := readUint32(r)
	if !ok {
		return Event{}, false
	}
	switch Kind(int32(tag)) {
	case KindStart:
		host, ok := readString(r)
		if !ok {
			return Event{}, false
		}
		unixTime, ok := readUint64(r)
		if !ok {
			return Event{}, false
		}
		processID, ok := readUint64(r)
		if !ok {
			return Event{}, false
		}
		return NewStart(host, unixTime, processID), true
	case KindStartZone:
		t, ok := readUint64(r)
		if !ok {
			return Event{}, false
		}
		threadID, ok := readUint64(r)
		if !ok {
			return Event{}, false
		}
		file, ok := readString(r)
		if !ok {
			return Event{}, false
		}
		function, ok := readString(r)
		if !ok {
			return Event{}, false
		}
		name, ok := readString(r)
		if !ok {
			return Event{}, false
		}
		line, ok := readUint32(r)
		if !ok {
			return Event{}, false
		}
		color, ok := readUint32(r)
		if !ok {
			return Event{}, false
		}
		return NewStartZone(color, line, file, function, name, threadID, t), true
	case KindEndZone:
		t, ok := readUint64(r)
		if !ok {
			return Event{}, false
		}
		threadID, ok := readUint64(r)
		if !ok {
			return Event{}, false
		}
		return NewEndZone(threadID, t), true
	case KindMessage:
		t, ok := readUint64(r)
		if !ok {
			return Event{}, false
		}
		threadID, ok := readUint64(r)
		if !ok {
			return Event{}, false
		}
		text, ok := readString(r)
		if !ok {
			return Event{}, false
		}
		return NewMessage(text, 0, threadID, t), true
	case KindThreadName:
		t, ok := readUint64(r)
		if !ok {
			return Event{}, false
		}
		threadID, ok := readUint64(r)
		if !ok {
			return Event{}, false
		}
		name, ok := readString(r)
		if !ok {
			return Event{}, false
		}
		return NewThreadName(name, threadID, t), true
	default:
		return Event{}, false
	}
}

// NewReader wraps r in a bufio.Reader sized for typical trace event runs.
func NewReader(r io.Reader) *bufio.Reader {
	return bufio.NewReaderSize(r, 64*1024)
}

func appendUint32(out []byte, v uint32) []byte {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], v)
	return append(out, buf[:]...)
}

func appendUint64(out []byte, v uint64) []byte {
	var buf [8]byte
	byteOrder.PutUint64(buf[:], v)
	return append(out, buf[:]...)
}

func appendString(out []byte, s string) []byte {
	out = appendUint64(out, uint64(len(s)))
	return append(out, s...)
}

func readUint32(r io.Reader) (uint32, bool) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, false
	}
	return byteOrder.Uint32(buf[:]), true
}

func readUint64(r io.Reader) (uint64, bool) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, false
	}
	return byteOrder.Uint64(buf[:]), true
}

func readString(r io.Reader) (string, bool) {
	length, ok := readUint64(r)
	if !ok {
		return "", false
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", false
	}
	return string(buf), true
}
