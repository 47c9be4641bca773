// Package input implements the keyboard/mouse binding table that turns UI
// key events into either terminal actions or raw wire bytes, generalized
// from _examples/javanhut-RavenTerminal/keybindings/keybindings.go away
// from its GLFW-specific key/modifier types so this package carries no
// windowing dependency (a spec non-goal).
package input

// Key identifies a physical key independent of any windowing toolkit.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyEnter
	KeyTab
	KeyEscape
	KeySpace
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyA // KeyA..KeyZ are contiguous, matching the teacher's range check idiom
	KeyZ = KeyA + 25
)

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

func (m Modifiers) has(bit Modifiers) bool { return m&bit != 0 }

// Action is the terminal-level action a key event resolves to when it
// isn't simple byte input (scrolling, tab management, etc — handled by
// the session/UI layer rather than written to the PTY).
type Action int

const (
	ActionNone Action = iota
	ActionInput
	ActionScrollUp
	ActionScrollDown
	ActionScrollLineUp
	ActionScrollLineDown
	ActionEnterVisual
	ActionExitVisual
)

// Result is what a key or mouse event resolves to: either an Action (with
// optional Data, e.g. input bytes) or nothing.
type Result struct {
	Action Action
	Data   []byte
}

// TranslateKey resolves a key press (with modifiers, and whether DECCKM/
// DECKPAM application modes are active) into a Result, following the
// branch structure of TranslateKey in the teacher's keybindings.go.
func TranslateKey(key Key, mods Modifiers, appCursor, appKeypad bool) Result {
	ctrl := mods.has(ModControl)
	shift := mods.has(ModShift)
	alt := mods.has(ModAlt)

	if shift && key == KeyPageUp {
		return Result{Action: ActionScrollUp}
	}
	if shift && key == KeyPageDown {
		return Result{Action: ActionScrollDown}
	}
	if shift && key == KeyUp {
		return Result{Action: ActionScrollLineUp}
	}
	if shift && key == KeyDown {
		return Result{Action: ActionScrollLineDown}
	}

	if seq, ok := arrowSequence(key, appCursor); ok {
		return Result{Action: ActionInput, Data: seq}
	}

	switch key {
	case KeyHome:
		return Result{Action: ActionInput, Data: []byte("\x1b[H")}
	case KeyEnd:
		return Result{Action: ActionInput, Data: []byte("\x1b[F")}
	case KeyPageUp:
		return Result{Action: ActionInput, Data: []byte("\x1b[5~")}
	case KeyPageDown:
		return Result{Action: ActionInput, Data: []byte("\x1b[6~")}
	case KeyInsert:
		return Result{Action: ActionInput, Data: []byte("\x1b[2~")}
	case KeyDelete:
		return Result{Action: ActionInput, Data: []byte("\x1b[3~")}
	case KeyBackspace:
		return Result{Action: ActionInput, Data: []byte{0x7f}}
	case KeyEnter:
		return Result{Action: ActionInput, Data: []byte{'\r'}}
	case KeyTab:
		if shift {
			return Result{Action: ActionInput, Data: []byte("\x1b[Z")}
		}
		return Result{Action: ActionInput, Data: []byte{'\t'}}
	case KeyEscape:
		return Result{Action: ActionInput, Data: []byte{0x1b}}
	case KeySpace:
		if ctrl {
			return Result{Action: ActionInput, Data: []byte{0}}
		}
		return Result{Action: ActionNone}
	}

	if seq, ok := functionKeySequence(key); ok {
		return Result{Action: ActionInput, Data: seq}
	}

	if ctrl && key >= KeyA && key <= KeyZ {
		return Result{Action: ActionInput, Data: []byte{byte(key - KeyA + 1)}}
	}

	if alt && key >= KeyA && key <= KeyZ {
		c := byte(key-KeyA) + 'a'
		if shift {
			c = byte(key-KeyA) + 'A'
		}
		return Result{Action: ActionInput, Data: []byte{0x1b, c}}
	}

	return Result{Action: ActionNone}
}

func arrowSequence(key Key, appCursor bool) ([]byte, bool) {
	lead := byte('[')
	if appCursor {
		lead = 'O'
	}
	switch key {
	case KeyUp:
		return []byte{0x1b, lead, 'A'}, true
	case KeyDown:
		return []byte{0x1b, lead, 'B'}, true
	case KeyRight:
		return []byte{0x1b, lead, 'C'}, true
	case KeyLeft:
		return []byte{0x1b, lead, 'D'}, true
	}
	return nil, false
}

func functionKeySequence(key Key) ([]byte, bool) {
	seqs := map[Key][]byte{
		KeyF1: []byte("\x1bOP"), KeyF2: []byte("\x1bOQ"),
		KeyF3: []byte("\x1bOR"), KeyF4: []byte("\x1bOS"),
		KeyF5: []byte("\x1b[15~"), KeyF6: []byte("\x1b[17~"),
		KeyF7: []byte("\x1b[18~"), KeyF8: []byte("\x1b[19~"),
		KeyF9: []byte("\x1b[20~"), KeyF10: []byte("\x1b[21~"),
		KeyF11: []byte("\x1b[23~"), KeyF12: []byte("\x1b[24~"),
	}
	seq, ok := seqs[key]
	return seq, ok
}

// TranslateChar encodes a typed rune as UTF-8 bytes, prefixing ESC when
// Alt is held (matching the teacher's TranslateChar).
func TranslateChar(r rune, mods Modifiers) []byte {
	buf := make([]byte, 0, 5)
	if mods.has(ModAlt) {
		buf = append(buf, 0x1b)
	}
	return append(buf, []byte(string(r))...)
}
