// Package logging wires the structured, leveled logging spec.md is silent
// on (SPEC_FULL.md §2 Ambient Stack) into the core: a zerolog.Logger built
// once at cmd/vtcore startup and threaded into session.Session and
// transport/pty through their WithLogger constructor options and into
// transport/ssh through its Config.Logger field, the same functional-option idiom the teacher uses for
// BellProvider/TitleProvider (_examples/danielgatis-go-headless-term/terminal.go).
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Option configures the logger New builds.
type Option func(*zerolog.Context)

// WithLevel sets the minimum level that reaches the writer.
func WithLevel(level zerolog.Level) Option {
	return func(c *zerolog.Context) { *c = c.Logger().Level(level).With() }
}

// WithWriter overrides the default destination (os.Stderr).
func WithWriter(w io.Writer) Option {
	return func(c *zerolog.Context) { *c = c.Logger().Output(w).With() }
}

// WithPretty switches to zerolog's human-readable console writer, for an
// interactive terminal session rather than a log file or pipe.
func WithPretty() Option {
	return func(c *zerolog.Context) {
		*c = c.Logger().Output(zerolog.ConsoleWriter{Out: os.Stderr}).With()
	}
}

// New builds the base logger. Defaults to Info level, JSON to stderr, a
// "component" field of "vtcore" — callers scope it further per subsystem
// via Session/Transport/etc. below.
func New(opts ...Option) zerolog.Logger {
	ctx := zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Str("component", "vtcore")
	for _, opt := range opts {
		opt(&ctx)
	}
	return ctx.Logger()
}

// Session scopes a logger to one terminal session, tagging every entry
// with its id so a multi-pane host can demux a shared log stream.
func Session(log zerolog.Logger, sessionID string) zerolog.Logger {
	return log.With().Str("session", sessionID).Logger()
}

// Transport scopes a logger to one transport.Channel implementation
// ("pty" or "ssh"), per spec §4.6/§7's split between pty-local failures
// and SSH protocol/auth failures.
func Transport(log zerolog.Logger, kind string) zerolog.Logger {
	return log.With().Str("transport", kind).Logger()
}
