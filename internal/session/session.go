// Package session orchestrates a single terminal: it owns the transport
// channel, the VT parser, the screen engine and the vi navigator, and runs
// the I/O thread described in spec §5 ("transport.read → parser.feed →
// screen.apply"). Locking follows _examples/danielgatis-go-headless-term/terminal.go's single-
// mutex idiom generalized to span the whole orchestration: Session holds
// one mutex and every exported method that handles input, writes, pastes,
// resizes or reads the scroll offset takes it exactly once at entry (Start,
// Terminate, Close and the Screen/Navigator accessors do not), which gives the "single reentrant mutex" spec §5 asks for without Go's
// sync.Mutex actually being reentrant — internal helpers never re-lock.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dgterm/vtcore/internal/input"
	"github.com/dgterm/vtcore/internal/screen"
	"github.com/dgterm/vtcore/internal/transport"
	"github.com/dgterm/vtcore/internal/vicmd"
	"github.com/dgterm/vtcore/internal/vtparse"
)

// readTimeout bounds how long the I/O thread blocks in transport.Read
// before checking for a terminate request; it is not a protocol timeout.
const readTimeout = 200 * time.Millisecond

// OnClosed is invoked on the I/O thread when the transport reaches EOF,
// matching spec §7's TransportIo "EOF triggers onClosed" wording.
type OnClosed func(err error)

// Option configures a Session at construction time.
type Option func(*Session)

func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

func WithScrollbackCapacity(n int) Option { return func(s *Session) { s.scrollbackCap = n } }

func WithAutoResize() Option { return func(s *Session) { s.autoResize = true } }

func WithOnClosed(fn OnClosed) Option { return func(s *Session) { s.onClosed = fn } }

func WithBell(p screen.BellProvider) Option { return func(s *Session) { s.bell = p } }

func WithTitle(p screen.TitleProvider) Option { return func(s *Session) { s.title = p } }

func WithClipboard(p screen.ClipboardProvider) Option {
	return func(s *Session) { s.clipboard = p }
}

func WithPalette(p [256][3]uint8) Option { return func(s *Session) { s.palette = &p } }

func WithPermission(p screen.PermissionProvider) Option {
	return func(s *Session) { s.permission = p }
}

// Session ties a transport.Channel to a screen.Screen through a
// vtparse.Parser, and layers vi-style navigation and key/mouse binding
// dispatch on top (spec §4.4, §4.5). ID is a session-scoped identifier
// for the owning process to key a session table by — spec's own data
// model has no notion of session identity, but every pack repo that
// multiplexes several terminals (dcosson-h2, patrick-goecommerce) mints
// one with uuid.New(), so session does too.
type Session struct {
	ID string

	mu      sync.Mutex
	channel transport.Channel
	parser  *vtparse.Parser
	scr     *screen.Screen
	nav     *vicmd.Navigator
	vi      pending // in-progress vi-Normal command (count/operator/prefix)

	bindings *BindingTable

	log           zerolog.Logger
	onClosed      OnClosed
	scrollbackCap int
	autoResize    bool
	bell          screen.BellProvider
	title         screen.TitleProvider
	clipboard     screen.ClipboardProvider
	palette       *[256][3]uint8
	permission    screen.PermissionProvider

	scrollOffset    int // lines scrolled back from the live viewport
	searching       bool
	tracing         bool
	keyMapsDisabled bool // set by ToggleAllKeyMaps (spec §4.5)

	closed    chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// New creates a Session bound to channel, with an initial page size of
// rows x cols. The screen engine is constructed here so its response
// writer can be wired straight to the channel (spec keeps wire I/O out
// of the screen component; Session is the one place that owns both ends).
func New(channel transport.Channel, rows, cols int, opts ...Option) *Session {
	s := &Session{
		ID:      uuid.New().String(),
		channel: channel,
		log:     zerolog.Nop(),
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}

	screenOpts := []screen.Option{
		screen.WithResponseWriter(func(b []byte) { s.writeRaw(b) }),
	}
	if s.scrollbackCap > 0 {
		screenOpts = append(screenOpts, screen.WithScrollbackCapacity(s.scrollbackCap))
	}
	if s.autoResize {
		screenOpts = append(screenOpts, screen.WithAutoResize())
	}
	if s.bell != nil {
		screenOpts = append(screenOpts, screen.WithBell(s.bell))
	}
	if s.title != nil {
		screenOpts = append(screenOpts, screen.WithTitle(s.title))
	}
	if s.clipboard != nil {
		screenOpts = append(screenOpts, screen.WithClipboard(s.clipboard))
	}
	if s.palette != nil {
		screenOpts = append(screenOpts, screen.WithPalette(*s.palette))
	}
	if s.permission != nil {
		screenOpts = append(screenOpts, screen.WithPermission(s.permission))
	}

	s.scr = screen.New(rows, cols, screenOpts...)
	s.parser = vtparse.NewParser(s.scr)
	s.nav = vicmd.NewNavigator(s.scr)
	s.bindings = DefaultBindingTable()
	return s
}

// Start spawns the transport and the I/O thread (spec §5: "I/O thread
// (one per Terminal) runs the read loop ... exits on EOF or external
// terminate").
func (s *Session) Start(rows, cols int) error {
	if err := s.channel.Start(); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}
	if err := s.channel.Resize(rows, cols, nil); err != nil {
		s.log.Warn().Err(err).Msg("initial resize failed")
	}
	go s.ioLoop()
	return nil
}

// ioLoop is spec §5's I/O thread: transport.read is its only blocking
// call; everything else here is non-blocking.
func (s *Session) ioLoop() {
	defer close(s.done)
	buf := make([]byte, 4096)
	for {
		select {
		case <-s.closed:
			return
		default:
		}

		res := s.channel.Read(buf, readTimeout)
		if res.Again {
			continue
		}
		if res.EOF {
			s.log.Debug().Str("session", s.ID).Msg("transport reached EOF")
			if s.onClosed != nil {
				s.onClosed(nil)
			}
			return
		}
		if len(res.Data) == 0 {
			continue
		}

		s.mu.Lock()
		s.parser.Feed(res.Data)
		s.mu.Unlock()
	}
}

// writeRaw sends guest-directed reply bytes (DSR/CPR/DA/DECRQSS/etc) or
// UI-originated input straight to the transport, retrying once on Again
// the way a non-blocking write is expected to be handled.
func (s *Session) writeRaw(data []byte) {
	n, again, err := s.channel.Write(data)
	if err != nil {
		s.log.Warn().Err(err).Msg("transport write failed")
		return
	}
	if again && n < len(data) {
		// best-effort retry; the transport will drop further bytes on a
		// persistent Again rather than block the caller indefinitely.
		s.channel.Write(data[n:])
	}
}

// Write sends raw bytes to the transport (a pasted string, or bytes a
// higher layer has already translated). Bracketed-paste wrapping is the
// caller's responsibility via Paste, not Write.
func (s *Session) Write(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeRaw(data)
}

// Paste sends text to the guest, wrapping it in the bracketed-paste
// envelope when DECSET 2004 is active (spec §6.3).
func (s *Session) Paste(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pasteLocked(text)
}

func (s *Session) pasteLocked(text string) {
	if s.scr.HasMode(screen.ModeBracketedPaste) {
		s.writeRaw([]byte("\x1b[200~"))
		s.writeRaw([]byte(text))
		s.writeRaw([]byte("\x1b[201~"))
		return
	}
	s.writeRaw([]byte(text))
}

// Resize changes both the screen's page size and the transport's
// notion of it (spec's resize is non-blocking in both halves).
func (s *Session) Resize(rows, cols int, reflow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scr.Resize(rows, cols, reflow)
	return s.channel.Resize(rows, cols, nil)
}

// Screen exposes the underlying engine for read-only queries (render
// snapshot, cursor position, search) that don't need Session's own lock
// beyond what Screen's callers already coordinate via Snapshot.
func (s *Session) Screen() *screen.Screen { return s.scr }

// Navigator exposes the vi navigation layer.
func (s *Session) Navigator() *vicmd.Navigator { return s.nav }

// Terminate implements spec §5's cancellation sequence: set a flag, wake
// the reader, wait for the transport and the I/O thread to finish.
func (s *Session) Terminate() {
	s.closeOnce.Do(func() { close(s.closed) })
	s.channel.WakeupReader()
	s.channel.WaitForClosed()
	<-s.done
}

// Close terminates the session and releases the transport.
func (s *Session) Close() error {
	s.Terminate()
	return s.channel.Close()
}
