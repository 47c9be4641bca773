package config

import "github.com/dgterm/vtcore/internal/screen"

// modeNames maps the YAML-facing DEC/ANSI mode name a frozen_modes entry
// uses to the screen.Mode bit it pins, mirroring the mnemonic names
// internal/screen/modes.go comments each bit with.
var modeNames = map[string]screen.Mode{
	"line_wrap":         screen.ModeLineWrap,
	"origin_mode":       screen.ModeOriginMode,
	"insert":            screen.ModeInsert,
	"show_cursor":       screen.ModeShowCursor,
	"app_cursor_keys":   screen.ModeAppCursorKeys,
	"app_keypad":        screen.ModeAppKeypad,
	"bracketed_paste":   screen.ModeBracketedPaste,
	"alternate_screen":  screen.ModeAlternateScreen,
	"mouse_x10":         screen.ModeMouseX10,
	"mouse_button_event": screen.ModeMouseButtonEvent,
	"mouse_any_event":    screen.ModeMouseAnyEvent,
	"mouse_sgr":          screen.ModeMouseSGR,
	"mouse_utf8":         screen.ModeMouseUTF8,
	"focus_events":       screen.ModeFocusEvents,
	"reverse_video":      screen.ModeReverseVideo,
	"auto_repeat":        screen.ModeAutoRepeat,
	"send_recv":          screen.ModeSendRecv,
	"dec_col_132":        screen.ModeDECCOLM132,
}

// viModeNames is the set of vi navigation mode names a Profile's Cursor
// map may key on, matching internal/vicmd.Mode's five values.
var viModeNames = map[string]bool{
	"insert":       true,
	"normal":       true,
	"visual":       true,
	"visual_line":  true,
	"visual_block": true,
}

// FrozenModeSet resolves p's FrozenModes into a screen.Mode bitset plus
// the forced value for each (the mode names DECRQM/DECSET/DECRST must
// treat as pinned rather than toggled).
func (p *Profile) FrozenModeSet() map[screen.Mode]bool {
	out := make(map[screen.Mode]bool, len(p.FrozenModes))
	for name, v := range p.FrozenModes {
		if m, ok := modeNames[name]; ok {
			out[m] = v
		}
	}
	return out
}
