package session

import (
	"github.com/dgterm/vtcore/internal/input"
	"github.com/dgterm/vtcore/internal/screen"
)

// ModeFlag identifies one of the seven conditions a binding entry's mode
// mask can constrain (spec §4.5): AlternateScreen, AppCursor, AppKeypad,
// Select (any selection active), Insert (normal terminal pass-through,
// vi navigation disengaged — spec §4.4), Search (pattern editing), Trace
// (paused-execution mode).
type ModeFlag uint8

const (
	FlagAlternateScreen ModeFlag = iota
	FlagAppCursor
	FlagAppKeypad
	FlagSelect
	FlagInsert
	FlagSearch
	FlagTrace
	numModeFlags
)

// TriState is a mode flag's required value in a binding entry: Any never
// constrains the match, Enabled/Disabled require the flag's current
// state to agree.
type TriState uint8

const (
	TriAny TriState = iota
	TriEnabled
	TriDisabled
)

// MatchModes packs a TriState per ModeFlag into 2 bits each, the literal
// "bitmask where each flag has a tri-state" spec §4.5 describes.
type MatchModes uint32

func (m MatchModes) get(f ModeFlag) TriState {
	return TriState((m >> (uint(f) * 2)) & 0b11)
}

// WithMode returns a copy of m with f constrained to t.
func (m MatchModes) WithMode(f ModeFlag, t TriState) MatchModes {
	shift := uint(f) * 2
	return (m &^ (0b11 << shift)) | (MatchModes(t) << shift)
}

// modeState is the live value of all seven conditions, sampled from the
// session at dispatch time.
type modeState [numModeFlags]bool

func (m MatchModes) matches(actual modeState) bool {
	for f := ModeFlag(0); f < numModeFlags; f++ {
		switch m.get(f) {
		case TriEnabled:
			if !actual[f] {
				return false
			}
		case TriDisabled:
			if actual[f] {
				return false
			}
		}
	}
	return true
}

func (s *Session) currentModeState() modeState {
	var m modeState
	m[FlagAlternateScreen] = s.scr.IsAlternateScreen()
	m[FlagAppCursor] = s.scr.HasMode(screen.ModeAppCursorKeys)
	m[FlagAppKeypad] = s.scr.HasMode(screen.ModeAppKeypad)
	m[FlagSelect] = s.scr.HasSelection()
	m[FlagInsert] = !s.nav.Active()
	m[FlagSearch] = s.searching
	m[FlagTrace] = s.tracing
	return m
}

// KeyBinding is one entry of the key-mapping vector: a (key, modifiers,
// modes) match driving an action list (spec §4.5).
type KeyBinding struct {
	Key       input.Key
	Modifiers input.Modifiers
	Modes     MatchModes
	Actions   []Action
}

// CharBinding is one entry of the char-mapping vector.
type CharBinding struct {
	Char      rune
	Modifiers input.Modifiers
	Modes     MatchModes
	Actions   []Action
}

// MouseBinding is one entry of the mouse-mapping vector.
type MouseBinding struct {
	Button    input.MouseButton
	Modifiers input.Modifiers
	Modes     MatchModes
	Actions   []Action
}

// BindingTable holds the three vectors spec §4.5 names: keyMappings,
// charMappings, mouseMappings, each scanned in order on a non-Release
// event until the first full match.
type BindingTable struct {
	Keys  []KeyBinding
	Chars []CharBinding
	Mouse []MouseBinding
}

// DefaultBindingTable returns the baseline bindings this core ships
// with: a single key entry, Escape while vi navigation is disengaged
// (FlagInsert) runs ActionViNormalMode. No selection, scroll or copy
// shortcuts are bound; the config collaborator (spec §6.4's
// "input-mapping lists") appends those.
func DefaultBindingTable() *BindingTable {
	return &BindingTable{
		Keys: []KeyBinding{
			{Key: input.KeyEscape, Modifiers: 0, Modes: anyModes().WithMode(FlagInsert, TriEnabled), Actions: []Action{ActionViNormalMode}},
		},
	}
}

func anyModes() MatchModes { return MatchModes(0) }
