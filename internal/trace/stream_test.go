package trace

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"tracewire/internal/wire"
)

func encodeAll(events ...wire.Event) []byte {
	var buf []byte
	for _, ev := range events {
		buf = wire.Encode(ev, buf)
	}
	return buf
}

func TestStreamPeekPopLookahead(t *testing.T) {
	data := encodeAll(
		wire.NewStart("host", 1_000_000_000, 10),
		wire.NewStartZone(0, 1, "f.cpp", "Fn", "zone", 1, 50),
		wire.NewEndZone(1, 60),
	)
	s := NewStream(bufio.NewReader(bytes.NewReader(data)), "mem")

	first, ok := s.Peek()
	if !ok || first.Kind != wire.KindStart {
		t.Fatalf("expected Start as first peek, got %+v ok=%v", first, ok)
	}

	popped, ok := s.Pop()
	if !ok || popped.Kind != wire.KindStart {
		t.Fatalf("expected popped Start, got %+v", popped)
	}

	next, ok := s.Peek()
	if !ok || next.Kind != wire.KindStartZone {
		t.Fatalf("expected StartZone after popping Start, got %+v", next)
	}

	popped, ok = s.Pop()
	if !ok || popped.Kind != wire.KindStartZone {
		t.Fatalf("expected popped StartZone, got %+v", popped)
	}

	last, ok := s.Peek()
	if !ok || last.Kind != wire.KindEndZone {
		t.Fatalf("expected EndZone, got %+v", last)
	}
	if _, ok := s.Pop(); !ok {
		t.Fatalf("expected to pop EndZone")
	}

	if _, ok := s.Peek(); ok {
		t.Fatalf("expected stream to be exhausted")
	}
	if !s.Exhausted() {
		t.Fatalf("expected Exhausted() true")
	}
}

func TestStreamNanosecondsSincePosixRebasesFromStart(t *testing.T) {
	const startUnix = 1_700_000_000_000_000_000
	data := encodeAll(
		wire.NewStart("host", startUnix, 1),
		wire.NewEndZone(1, 500),
	)
	s := NewStream(bufio.NewReader(bytes.NewReader(data)), "mem")

	if got := s.NanosecondsSincePosix(); got != startUnix {
		t.Fatalf("expected start event wall time %d, got %d", uint64(startUnix), got)
	}
	s.Pop()

	if got := s.NanosecondsSincePosix(); got != startUnix+500 {
		t.Fatalf("expected rebased wall time %d, got %d", uint64(startUnix+500), got)
	}
}

func TestStreamExhaustedReturnsStartPosixTime(t *testing.T) {
	const startUnix = 42
	data := encodeAll(wire.NewStart("host", startUnix, 1))
	s := NewStream(bufio.NewReader(bytes.NewReader(data)), "mem")
	s.Pop()

	if !s.Exhausted() {
		t.Fatalf("expected stream exhausted after consuming only event")
	}
	if got := s.NanosecondsSincePosix(); got != startUnix {
		t.Fatalf("expected exhausted stream to report start_posix_time %d, got %d", uint64(startUnix), got)
	}
}

func TestMagicRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMagic(&buf); err != nil {
		t.Fatalf("WriteMagic: %v", err)
	}
	if err := ReadMagic(bufio.NewReader(&buf)); err != nil {
		t.Fatalf("ReadMagic: %v", err)
	}
}

func TestReadMagicRejectsBadHeader(t *testing.T) {
	bad := bytes.NewReader([]byte("not-a-trace-"))
	if err := ReadMagic(bad); err == nil {
		t.Fatalf("expected error for bad magic header")
	}
}

func TestDiscoverFindsOnlyMagicTaggedFiles(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.trc")
	var buf bytes.Buffer
	WriteMagic(&buf)
	buf.Write(encodeAll(wire.NewStart("h", 1, 1)))
	if err := os.WriteFile(good, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write good file: %v", err)
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("not a trace file at all"), 0o644); err != nil {
		t.Fatalf("write bad file: %v", err)
	}

	files, err := Discover([]string{dir})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0] != good {
		t.Fatalf("expected only %q discovered, got %v", good, files)
	}
}

func TestOpenTraceFileStripsMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.trc")

	var buf bytes.Buffer
	WriteMagic(&buf)
	payload := encodeAll(wire.NewStart("h", 1, 2))
	buf.Write(payload)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write trace file: %v", err)
	}

	f, err := OpenTraceFile(path)
	if err != nil {
		t.Fatalf("OpenTraceFile: %v", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	ev, ok := wire.Decode(r)
	if !ok || ev.Kind != wire.KindStart {
		t.Fatalf("expected to decode Start event immediately after magic, got %+v ok=%v", ev, ok)
	}
}
