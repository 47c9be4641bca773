package logging

import (
	"github.com/rs/zerolog"

	"github.com/dgterm/vtcore/internal/screen"
)

// ErrorSink logs screen.ErrorSink reports at Debug level (spec §7: parse
// and dispatch errors never propagate as Go errors, they're observed
// through this fixed-capability-set collaborator instead, same shape as
// screen.BellProvider).
type ErrorSink struct {
	log zerolog.Logger
}

// NewErrorSink wraps log as a screen.ErrorSink.
func NewErrorSink(log zerolog.Logger) ErrorSink {
	return ErrorSink{log: log}
}

func (e ErrorSink) ReportParseError(category, detail string) {
	e.log.Debug().Str("category", category).Str("detail", detail).Msg("parse error")
}

var _ screen.ErrorSink = ErrorSink{}
