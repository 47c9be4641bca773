package session

import (
	"sync"
	"testing"
	"time"

	"github.com/dgterm/vtcore/internal/transport"
)

// fakeChannel is an in-memory transport.Channel for session tests, in the
// same injected-queue style as transport/ssh's fake (injectLine).
type fakeChannel struct {
	mu      sync.Mutex
	inbox   [][]byte
	eof     bool
	wake    chan struct{}
	written [][]byte
	resized []int
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{wake: make(chan struct{}, 1)}
}

func (f *fakeChannel) Start() error { return nil }

func (f *fakeChannel) inject(data []byte) {
	f.mu.Lock()
	f.inbox = append(f.inbox, data)
	f.mu.Unlock()
}

func (f *fakeChannel) injectEOF() {
	f.mu.Lock()
	f.eof = true
	f.mu.Unlock()
}

func (f *fakeChannel) Read(buf []byte, timeout time.Duration) transport.ReadResult {
	f.mu.Lock()
	if len(f.inbox) > 0 {
		data := f.inbox[0]
		f.inbox = f.inbox[1:]
		n := copy(buf, data)
		f.mu.Unlock()
		return transport.ReadResult{Data: buf[:n]}
	}
	eof := f.eof
	f.mu.Unlock()
	if eof {
		return transport.ReadResult{EOF: true}
	}

	// Idle wait bounded well under the ioLoop poll timeout so tests stay
	// fast, instead of spinning ioLoop's goroutine at full CPU between
	// injected reads.
	wait := timeout
	if wait > 5*time.Millisecond || wait <= 0 {
		wait = 5 * time.Millisecond
	}
	select {
	case <-f.wake:
	case <-time.After(wait):
	}
	return transport.ReadResult{Again: true}
}

func (f *fakeChannel) Write(data []byte) (int, bool, error) {
	f.mu.Lock()
	cp := append([]byte(nil), data...)
	f.written = append(f.written, cp)
	f.mu.Unlock()
	return len(data), false, nil
}

func (f *fakeChannel) Resize(rows, cols int, pixels *transport.PixelSize) error {
	f.mu.Lock()
	f.resized = append(f.resized, rows, cols)
	f.mu.Unlock()
	return nil
}

func (f *fakeChannel) Close() error {
	return nil
}

func (f *fakeChannel) WaitForClosed() {}

func (f *fakeChannel) WakeupReader() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func newTestSession(t *testing.T) (*Session, *fakeChannel) {
	t.Helper()
	ch := newFakeChannel()
	s := New(ch, 5, 10)
	if err := s.Start(5, 10); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s, ch
}

func TestIoLoopFeedsParserAndOnClosedFiresOnEOF(t *testing.T) {
	var closedErr error
	closedCh := make(chan struct{})
	ch := newFakeChannel()
	s := New(ch, 3, 10, WithOnClosed(func(err error) {
		closedErr = err
		close(closedCh)
	}))
	if err := s.Start(3, 10); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ch.inject([]byte("abc"))
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.Screen().LineContent(0) == "abc       " {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := s.Screen().LineContent(0); got != "abc       " {
		t.Fatalf("screen content = %q, want fed bytes applied", got)
	}

	ch.injectEOF()
	select {
	case <-closedCh:
	case <-time.After(2 * time.Second):
		t.Fatal("onClosed was not invoked after transport EOF")
	}
	if closedErr != nil {
		t.Fatalf("onClosed err = %v, want nil", closedErr)
	}
}

func TestTerminateStopsIoLoop(t *testing.T) {
	s, _ := newTestSession(t)
	done := make(chan struct{})
	go func() {
		s.Terminate()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Terminate did not return")
	}
}

// feedGuest simulates the guest sending data by feeding it straight to
// the parser, bypassing the transport round trip ioLoop would otherwise
// need polling for.
func feedGuest(s *Session, data string) {
	s.mu.Lock()
	s.parser.Feed([]byte(data))
	s.mu.Unlock()
}

func TestPasteWrapsBracketedPasteWhenModeActive(t *testing.T) {
	s, ch := newTestSession(t)
	feedGuest(s, "\x1b[?2004h")

	s.Paste("hello")

	ch.mu.Lock()
	defer ch.mu.Unlock()
	var all []byte
	for _, w := range ch.written {
		all = append(all, w...)
	}
	got := string(all)
	if got != "\x1b[200~hello\x1b[201~" {
		t.Fatalf("written = %q", got)
	}
}

func TestPasteSendsPlainTextWithoutBracketedMode(t *testing.T) {
	s, ch := newTestSession(t)
	s.Paste("hi")
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.written) != 1 || string(ch.written[0]) != "hi" {
		t.Fatalf("written = %v", ch.written)
	}
}

func TestResizePropagatesToScreenAndTransport(t *testing.T) {
	s, ch := newTestSession(t)
	if err := s.Resize(8, 20, false); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got := s.Screen().Rows(); got != 8 {
		t.Fatalf("rows = %d want 8", got)
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.resized) < 2 || ch.resized[len(ch.resized)-2] != 8 || ch.resized[len(ch.resized)-1] != 20 {
		t.Fatalf("resized calls = %v", ch.resized)
	}
}
