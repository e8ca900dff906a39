// Package clockhost provides host/process identity and a monotonic clock
// referenced to a fixed start point. Recorders and the replay scheduler
// depend on these interfaces rather than calling os/time directly, so
// tests can substitute deterministic clocks.
package clockhost

import (
	"os"
	"time"
)

// Clock supplies nanosecond timestamps relative to a fixed reference point
// captured at construction, plus the corresponding Unix time of that
// reference point.
type Clock interface {
	// ReferenceUnixNanos is the Unix time, in nanoseconds, of the instant
	// the clock was created.
	ReferenceUnixNanos() uint64
	// Since returns nanoseconds elapsed since the reference point.
	Since() uint64
}

// Host identifies the machine and process emitting events.
type Host interface {
	Hostname() string
	ProcessID() uint64
}

// monotonicClock implements Clock using the runtime's monotonic time.Time
// reading for deltas, referenced against the wall-clock time captured
// once at construction as the Unix-time anchor written into Start.
type monotonicClock struct {
	unixNanos uint64
	start     time.Time
}

// NewSystemClock captures the current instant as the reference point.
func NewSystemClock() Clock {
	return &monotonicClock{
		unixNanos: uint64(time.Now().UnixNano()),
		start:     time.Now(),
	}
}

func (c *monotonicClock) ReferenceUnixNanos() uint64 { return c.unixNanos }

func (c *monotonicClock) Since() uint64 {
	elapsed := time.Since(c.start)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed.Nanoseconds())
}

// systemHost implements Host using the OS hostname and this process's PID.
type systemHost struct {
	hostname string
	pid      uint64
}

// NewSystemHost resolves the local hostname and process ID once.
func NewSystemHost() Host {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "unknown"
	}
	return &systemHost{hostname: name, pid: uint64(os.Getpid())}
}

func (h *systemHost) Hostname() string  { return h.hostname }
func (h *systemHost) ProcessID() uint64 { return h.pid }

// FixedClock is a deterministic Clock for tests: Since() returns values
// from a caller-controlled sequence, advanced explicitly.
type FixedClock struct {
	unixNanos uint64
	elapsed   uint64
}

// NewFixedClock constructs a clock with the given Unix-time reference and
// an elapsed counter starting at zero.
func NewFixedClock(referenceUnixNanos uint64) *FixedClock {
	return &FixedClock{unixNanos: referenceUnixNanos}
}

func (c *FixedClock) ReferenceUnixNanos() uint64 { return c.unixNanos }
func (c *FixedClock) Since() uint64              { return c.elapsed }

// Advance moves the fixed clock forward by delta nanoseconds.
func (c *FixedClock) Advance(delta uint64) {
	c.elapsed += delta
}

// FixedHost is a deterministic Host for tests.
type FixedHost struct {
	Host_ string
	PID   uint64
}

func (h FixedHost) Hostname() string  { return h.Host_ }
func (h FixedHost) ProcessID() uint64 { return h.PID }
