// Package diag provides the local diagnostic sink threaded through the
// ingest and emit pipelines. Installing a sink is a value passed explicitly
// by the caller, never a process-global logging policy.
package diag

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Sink is installed once per Ingest/Emit call and handed to every component
// that needs to report progress or errors. Error lines are always written;
// progress lines are written only when the caller asked for them.
type Sink struct {
	logger   zerolog.Logger
	session  uuid.UUID
	progress bool
}

// NewSink builds a sink writing to w. When progress is false, Progress
// and Progressf are no-ops, but Error is never suppressed.
func NewSink(w io.Writer, progress bool) *Sink {
	if w == nil {
		w = os.Stderr
	}
	return &Sink{
		logger:   zerolog.New(w).With().Timestamp().Logger(),
		session:  uuid.New(),
		progress: progress,
	}
}

// Discard returns a sink that drops progress lines and discards errors too.
// Useful for tests that don't care about diagnostics.
func Discard() *Sink {
	return &Sink{logger: zerolog.Nop(), session: uuid.New(), progress: false}
}

func (s *Sink) Progress(msg string) {
	if s == nil || !s.progress {
		return
	}
	s.logger.Info().Str("session", s.session.String()).Msg(msg)
}

func (s *Sink) Progressf(format string, args ...any) {
	if s == nil || !s.progress {
		return
	}
	s.logger.Info().Str("session", s.session.String()).Msgf(format, args...)
}

// Error reports a violation identifying the record kind, the originating
// line number, and the specific field, regardless of the progress setting.
func (s *Sink) Error(recordKind byte, line int, field, reason string) {
	if s == nil {
		return
	}
	s.logger.Error().
		Str("session", s.session.String()).
		Str("record", string(recordKind)).
		Int("line", line).
		Str("field", field).
		Msg(reason)
}

// Session returns the correlation id for this sink's invocation.
func (s *Sink) Session() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.session
}
