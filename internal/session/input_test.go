package session

import (
	"testing"

	"github.com/dgterm/vtcore/internal/input"
)

func TestHandleKeyReleaseNeverMatchesOrTranslates(t *testing.T) {
	s, ch := newTestSession(t)
	if s.HandleKey(input.KeyA, 0, EventRelease) {
		t.Fatalf("release events must never be consumed")
	}
	if len(ch.written) != 0 {
		t.Fatalf("release events must never produce wire bytes, got %v", ch.written)
	}
}

func TestHandleKeyFallsThroughToWireTranslation(t *testing.T) {
	s, ch := newTestSession(t)
	if !s.HandleKey(input.KeyUp, 0, EventPress) {
		t.Fatalf("expected KeyUp to translate to wire bytes")
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.written) != 1 || string(ch.written[0]) != "\x1b[A" {
		t.Fatalf("written = %v, want CUU", ch.written)
	}
}

func TestHandleKeyEscapeBindingEntersViModeInsteadOfWireBytes(t *testing.T) {
	s, ch := newTestSession(t)
	if !s.HandleKey(input.KeyEscape, 0, EventPress) {
		t.Fatalf("expected Escape binding to consume the event")
	}
	if !s.nav.Active() {
		t.Fatalf("expected vi navigation engaged after Escape from Insert")
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.written) != 0 {
		t.Fatalf("binding match must not also write wire bytes, got %v", ch.written)
	}
}

func TestHandleKeyWhileViActiveSwallowsUnmappedKeys(t *testing.T) {
	s, ch := newTestSession(t)
	s.nav.ToggleNormalMode()

	if s.HandleKey(input.KeyF1, 0, EventPress) {
		t.Fatalf("unmapped key during vi navigation should not be consumed")
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.written) != 0 {
		t.Fatalf("vi navigation must commandeer input, not forward it to the guest: %v", ch.written)
	}
}

func TestHandleCharFallsThroughToWireTranslation(t *testing.T) {
	s, ch := newTestSession(t)
	if !s.HandleChar('x', 0, EventPress) {
		t.Fatalf("expected char to translate to wire bytes")
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.written) != 1 || string(ch.written[0]) != "x" {
		t.Fatalf("written = %v", ch.written)
	}
}

func TestHandleMouseFallsThroughToSGRWhenReportingActive(t *testing.T) {
	s, ch := newTestSession(t)
	feedGuest(s, "\x1b[?1000h")

	if !s.HandleMouse(input.MouseLeft, 0, input.MousePress, 2, 3) {
		t.Fatalf("expected mouse press to produce SGR bytes once reporting is active")
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.written) != 1 {
		t.Fatalf("expected exactly one SGR write, got %v", ch.written)
	}
}

func TestHandleMouseNoopWithoutReportingMode(t *testing.T) {
	s, ch := newTestSession(t)
	if s.HandleMouse(input.MouseLeft, 0, input.MousePress, 1, 1) {
		t.Fatalf("expected no mouse reporting without an active reporting mode")
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if len(ch.written) != 0 {
		t.Fatalf("written = %v, want none", ch.written)
	}
}
