package recorder

import (
	"tracewire/internal/clockhost"
	"tracewire/internal/logging"
)

// Recorder is the process-wide entry point for the emit-side pipeline: one
// Serializer plus a factory for per-thread buffers sharing its clock/host
// identity. It is an explicit, long-lived context object a caller
// constructs once and threads through, with package-level convenience
// wrappers (see global.go) standing in as the singleton default when
// callers don't need multiple independent recorders in one process.
type Recorder struct {
	host       clockhost.Host
	clock      clockhost.Clock
	serializer *Serializer
}

// New constructs a Recorder. The background serializer does not start
// emitting until SetOutput is called.
func New(host clockhost.Host, clock clockhost.Clock, log *logging.Logger) *Recorder {
	return &Recorder{
		host:       host,
		clock:      clock,
		serializer: NewSerializer(host, clock, log),
	}
}

// SetOutput installs the output sink and emits the magic header plus the
// one and only Start event for this recorder's process.
func (r *Recorder) SetOutput(output OutputFunc) error {
	return r.serializer.SetOutput(output)
}

// NewThreadBuffer constructs a buffer for threadID bound to this
// recorder's serializer and clock.
func (r *Recorder) NewThreadBuffer(threadID uint64) *ThreadBuffer {
	return NewThreadBuffer(threadID, r.clock, r.serializer)
}

// Stop shuts the background serializer down, draining any queued events
// first.
func (r *Recorder) Stop() {
	r.serializer.Stop()
}
