package recorder

import (
	"sync"

	"tracewire/internal/clockhost"
	"tracewire/internal/logging"
)

// The package-level Recorder used by the global convenience functions
// below, lazily constructed on first use. Per-thread buffers are looked
// up by an explicit caller-supplied id rather than an OS thread handle,
// since Go exposes no stable goroutine identifier.
var (
	defaultMu      sync.Mutex
	defaultRec     *Recorder
	defaultBuffers sync.Map // uint64 -> *ThreadBuffer
)

func defaultRecorder() *Recorder {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRec == nil {
		defaultRec = New(clockhost.NewSystemHost(), clockhost.NewSystemClock(), logging.L())
	}
	return defaultRec
}

// SetOutput installs the output sink on the default recorder. Calling it
// twice returns an error, matching the one-shot contract of SetOutput.
func SetOutput(output OutputFunc) error {
	return defaultRecorder().SetOutput(output)
}

// bufferFor returns (creating if necessary) the thread-local buffer
// registered under threadID on the default recorder.
func bufferFor(threadID uint64) *ThreadBuffer {
	if existing, ok := defaultBuffers.Load(threadID); ok {
		return existing.(*ThreadBuffer)
	}
	buf := defaultRecorder().NewThreadBuffer(threadID)
	actual, _ := defaultBuffers.LoadOrStore(threadID, buf)
	return actual.(*ThreadBuffer)
}

// NameThread records a ThreadName event on behalf of threadID using the
// default recorder.
func NameThread(threadID uint64, name string) { bufferFor(threadID).NameThread(name) }

// ZoneStart records a StartZone event on behalf of threadID using the
// default recorder.
func ZoneStart(threadID uint64, line uint32, file, function, name string, color uint32) {
	bufferFor(threadID).ZoneStart(line, file, function, name, color)
}

// ZoneEnd records an EndZone event on behalf of threadID using the default
// recorder.
func ZoneEnd(threadID uint64) { bufferFor(threadID).ZoneEnd() }

// Message records a Message event on behalf of threadID using the default
// recorder.
func Message(threadID uint64, text string, color uint32) { bufferFor(threadID).Message(text, color) }

// Flush flushes threadID's buffer through the default recorder's
// serializer.
func Flush(threadID uint64) { bufferFor(threadID).Flush() }
