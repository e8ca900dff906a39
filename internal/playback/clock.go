package playback

import "time"

// ReplayClock supplies the origin and scale the merge scheduler needs to
// rebase recorded wall-clock times onto the replaying profiler's own
// clock domain. Sink is abstract, so tracewire has no single
// built-in notion of "profiler ticks"; callers wire in whatever their
// Sink implementation's time domain actually is.
type ReplayClock interface {
	// Now returns the profiler's current time, in whatever unit the
	// Sink implementation expects for localTime arguments.
	Now() uint64
	// NanosecondScale returns the ratio of profiler ticks to real
	// nanoseconds, used to scale the rebased wall-clock delta.
	NanosecondScale() float64
}

// WallClock is the default ReplayClock for sinks (like LoggingSink) whose
// time domain is plain nanoseconds, making ticks and nanoseconds
// identical and the scale a constant 1.0.
type WallClock struct{}

func (WallClock) Now() uint64 { return uint64(time.Now().UnixNano()) }

func (WallClock) NanosecondScale() float64 { return 1.0 }

// CalibrateNanosecondScale measures a profiler clock's tick rate by
// bracketing a sleep around two samples, for sinks whose ticks are not
// plain nanoseconds. The result is noisy by construction and meant to be
// measured once and treated as a constant for the life of a replay run.
func CalibrateNanosecondScale(now func() uint64, sleep time.Duration) float64 {
	start := now()
	time.Sleep(sleep)
	end := now()
	return float64(end-start) / float64(sleep.Nanoseconds())
}
