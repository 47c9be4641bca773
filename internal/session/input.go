package session

import (
	"github.com/dgterm/vtcore/internal/input"
	"github.com/dgterm/vtcore/internal/screen"
)

// EventKind mirrors spec §4.5's {Press, Repeat, Release} for key/char
// events (mouse events use input.MouseEventKind instead).
type EventKind uint8

const (
	EventPress EventKind = iota
	EventRepeat
	EventRelease
)

// HandleKey resolves a key event: on Press/Repeat it first scans the key
// binding vector in order for a full match (input, exact modifier set,
// mode mask), running and consuming the event on the first hit. Failing
// that, an engaged vi navigator (spec §4.4) commandeers the event
// instead of it reaching the guest; only with vi mode disengaged does it
// fall through to TranslateKey's wire-byte translation (spec §4.5).
// Release events never match bindings or produce wire bytes.
func (s *Session) HandleKey(key input.Key, mods input.Modifiers, kind EventKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == EventRelease {
		return false
	}

	state := s.currentModeState()
	for _, b := range s.bindings.Keys {
		if b.Key == key && b.Modifiers == mods && b.Modes.matches(state) {
			return s.dispatch(b.Actions, ActionArgs{})
		}
	}

	if s.nav.Active() {
		return s.viKey(key, mods)
	}

	appCursor := s.scr.HasMode(screen.ModeAppCursorKeys)
	appKeypad := s.scr.HasMode(screen.ModeAppKeypad)
	result := input.TranslateKey(key, mods, appCursor, appKeypad)
	if result.Action != input.ActionInput || len(result.Data) == 0 {
		return false
	}
	s.writeRaw(result.Data)
	return true
}

// HandleChar resolves a typed-character event the same way HandleKey
// does, against the char binding vector, an engaged vi navigator, and
// finally TranslateChar.
func (s *Session) HandleChar(r rune, mods input.Modifiers, kind EventKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == EventRelease {
		return false
	}

	state := s.currentModeState()
	for _, b := range s.bindings.Chars {
		if b.Char == r && b.Modifiers == mods && b.Modes.matches(state) {
			return s.dispatch(b.Actions, ActionArgs{})
		}
	}

	if s.nav.Active() {
		return s.viChar(r)
	}

	s.writeRaw(input.TranslateChar(r, mods))
	return true
}

// HandleMouse resolves a mouse event against the mouse binding vector,
// falling through to SGR mouse-reporting wire bytes when a reporting
// mode is active.
func (s *Session) HandleMouse(btn input.MouseButton, mods input.Modifiers, kind input.MouseEventKind, row, col int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind != input.MouseRelease {
		state := s.currentModeState()
		for _, b := range s.bindings.Mouse {
			if b.Button == btn && b.Modifiers == mods && b.Modes.matches(state) {
				return s.dispatch(b.Actions, ActionArgs{})
			}
		}
	}

	if !s.mouseReportingActive() {
		return false
	}
	s.writeRaw(input.EncodeMouseSGR(btn, kind, mods, row, col))
	return true
}

func (s *Session) mouseReportingActive() bool {
	return s.scr.HasMode(screen.ModeMouseButtonEvent) ||
		s.scr.HasMode(screen.ModeMouseAnyEvent) ||
		s.scr.HasMode(screen.ModeMouseX10)
}
