package sink

import (
	"tracewire/internal/logging"
)

// LoggingSink renders replayed events as structured log lines through the
// tracewire logging package. It exists so the replay binaries are runnable
// end to end without an actual profiler UI attached; production
// integrations implement Sink against their own backend instead.
type LoggingSink struct {
	log *logging.Logger
}

// NewLoggingSink constructs a sink writing through log. A nil log falls
// back to the package-level default logger.
func NewLoggingSink(log *logging.Logger) *LoggingSink {
	if log == nil {
		log = logging.L()
	}
	return &LoggingSink{log: log}
}

// locationHandle is what AllocateSourceLocation hands back; the reference
// sink has no arena to manage so the handle simply carries the location.
type locationHandle struct {
	loc SourceLocation
}

func (s *LoggingSink) AllocateSourceLocation(loc SourceLocation) Handle {
	return locationHandle{loc: loc}
}

func (s *LoggingSink) ZoneBegin(localTime uint64, handle Handle) {
	loc, ok := handle.(locationHandle)
	if !ok {
		s.log.Warn("zone begin with unrecognized location handle", logging.Int64("local_time", int64(localTime)))
		return
	}
	s.log.Debug("zone begin",
		logging.Int64("local_time", int64(localTime)),
		logging.String("name", loc.loc.Name),
		logging.String("function", loc.loc.Function),
		logging.String("file", loc.loc.File),
		logging.Int("line", int(loc.loc.Line)),
	)
}

func (s *LoggingSink) ZoneEnd(localTime uint64) {
	s.log.Debug("zone end", logging.Int64("local_time", int64(localTime)))
}

func (s *LoggingSink) Message(localTime uint64, text string) {
	s.log.Info("message", logging.Int64("local_time", int64(localTime)), logging.String("text", text))
}

func (s *LoggingSink) MessageColored(localTime uint64, text string, r, g, b uint8) {
	s.log.Info("message",
		logging.Int64("local_time", int64(localTime)),
		logging.String("text", text),
		logging.Int("color_r", int(r)),
		logging.Int("color_g", int(g)),
		logging.Int("color_b", int(b)),
	)
}

func (s *LoggingSink) SetThreadNameWithHint(name string, groupID uint32) {
	s.log.Info("thread named", logging.String("name", name), logging.Int("group_id", int(groupID)))
}
