package sink

import (
	"testing"

	"tracewire/internal/logging"
)

func TestLoggingSinkDispatchesWithoutPanicking(t *testing.T) {
	s := NewLoggingSink(logging.NewTestLogger())

	handle := s.AllocateSourceLocation(SourceLocation{Line: 10, File: "f.cpp", Function: "Fn", Name: "zone", Color: 0xff0000})
	s.ZoneBegin(100, handle)
	s.ZoneEnd(200)
	s.Message(300, "hello")
	s.MessageColored(400, "hello", 255, 0, 0)
	s.SetThreadNameWithHint("worker", 2)
}

// TestLoggingSinkHandlesUnrecognizedHandle exercises the defensive branch
// of ZoneBegin: a Handle from a different Sink implementation (or a
// zero-value Handle) must not panic, only log a warning.
func TestLoggingSinkHandlesUnrecognizedHandle(t *testing.T) {
	s := NewLoggingSink(logging.NewTestLogger())
	s.ZoneBegin(100, "not-a-location-handle")
}

func TestNewLoggingSinkFallsBackToGlobalLogger(t *testing.T) {
	s := NewLoggingSink(nil)
	if s.log == nil {
		t.Fatalf("expected NewLoggingSink(nil) to fall back to a non-nil logger")
	}
}
