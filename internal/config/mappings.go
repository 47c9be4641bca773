// Input-mapping parsing: spec §6.4's "input-mapping lists (key, char,
// mouse)" expressed as YAML entries of (input, modifiers, mode
// constraints, actions) and translated into internal/session's
// BindingTable vectors. Name tables here are the YAML-facing vocabulary;
// internal/input and internal/session keep their own numeric enums and
// never need to know a string was ever involved.
package config

import (
	"fmt"

	"github.com/dgterm/vtcore/internal/input"
	"github.com/dgterm/vtcore/internal/session"
)

// KeyMapping is one key_mappings entry.
type KeyMapping struct {
	Key       string   `yaml:"key"`
	Modifiers []string `yaml:"modifiers"`
	Modes     Modes    `yaml:"modes"`
	Actions   []string `yaml:"actions"`
}

// CharMapping is one char_mappings entry.
type CharMapping struct {
	Char      string   `yaml:"char"`
	Modifiers []string `yaml:"modifiers"`
	Modes     Modes    `yaml:"modes"`
	Actions   []string `yaml:"actions"`
}

// MouseMapping is one mouse_mappings entry.
type MouseMapping struct {
	Button    string   `yaml:"button"`
	Modifiers []string `yaml:"modifiers"`
	Modes     Modes    `yaml:"modes"`
	Actions   []string `yaml:"actions"`
}

// Modes is the YAML form of session.MatchModes: a map from flag name to
// "enabled"/"disabled"; an absent flag means "any" (unconstrained),
// matching spec §4.5's tri-state bitmask.
type Modes map[string]string

func (m KeyMapping) validate() error {
	if _, ok := keyNames[m.Key]; !ok {
		return fmt.Errorf("unknown key %q", m.Key)
	}
	return validateModifiersAndActions(m.Modifiers, m.Modes, m.Actions)
}

func (m CharMapping) validate() error {
	if len([]rune(m.Char)) != 1 {
		return fmt.Errorf("char must be exactly one rune, got %q", m.Char)
	}
	return validateModifiersAndActions(m.Modifiers, m.Modes, m.Actions)
}

func (m MouseMapping) validate() error {
	if _, ok := mouseButtonNames[m.Button]; !ok {
		return fmt.Errorf("unknown mouse button %q", m.Button)
	}
	return validateModifiersAndActions(m.Modifiers, m.Modes, m.Actions)
}

func validateModifiersAndActions(mods []string, modes Modes, actions []string) error {
	for _, m := range mods {
		if _, ok := modifierNames[m]; !ok {
			return fmt.Errorf("unknown modifier %q", m)
		}
	}
	for flag, state := range modes {
		if _, ok := modeFlagNames[flag]; !ok {
			return fmt.Errorf("unknown mode flag %q", flag)
		}
		if state != "enabled" && state != "disabled" {
			return fmt.Errorf("mode flag %q: state must be enabled|disabled, got %q", flag, state)
		}
	}
	if len(actions) == 0 {
		return fmt.Errorf("no actions listed")
	}
	for _, a := range actions {
		if _, ok := actionNames[a]; !ok {
			return fmt.Errorf("unknown action %q", a)
		}
	}
	return nil
}

func parseModifiers(names []string) input.Modifiers {
	var m input.Modifiers
	for _, n := range names {
		m |= modifierNames[n]
	}
	return m
}

func parseModes(modes Modes) session.MatchModes {
	var m session.MatchModes
	for flag, state := range modes {
		f := modeFlagNames[flag]
		if state == "enabled" {
			m = m.WithMode(f, session.TriEnabled)
		} else {
			m = m.WithMode(f, session.TriDisabled)
		}
	}
	return m
}

func parseActions(names []string) []session.Action {
	out := make([]session.Action, 0, len(names))
	for _, n := range names {
		out = append(out, actionNames[n])
	}
	return out
}

// BindingTable converts the config's three mapping lists into a
// session.BindingTable, appended after session.DefaultBindingTable's
// baseline entries so a config file only needs to list its own
// additions/overrides (earlier entries win on the first-match scan
// session.HandleKey/HandleChar/HandleMouse perform).
func (c *Config) BindingTable() (*session.BindingTable, error) {
	bt := session.DefaultBindingTable()
	for i, m := range c.KeyMappings {
		if err := m.validate(); err != nil {
			return nil, fmt.Errorf("key_mappings[%d]: %w", i, err)
		}
		bt.Keys = append(bt.Keys, session.KeyBinding{
			Key:       keyNames[m.Key],
			Modifiers: parseModifiers(m.Modifiers),
			Modes:     parseModes(m.Modes),
			Actions:   parseActions(m.Actions),
		})
	}
	for i, m := range c.CharMappings {
		if err := m.validate(); err != nil {
			return nil, fmt.Errorf("char_mappings[%d]: %w", i, err)
		}
		bt.Chars = append(bt.Chars, session.CharBinding{
			Char:      []rune(m.Char)[0],
			Modifiers: parseModifiers(m.Modifiers),
			Modes:     parseModes(m.Modes),
			Actions:   parseActions(m.Actions),
		})
	}
	for i, m := range c.MouseMappings {
		if err := m.validate(); err != nil {
			return nil, fmt.Errorf("mouse_mappings[%d]: %w", i, err)
		}
		bt.Mouse = append(bt.Mouse, session.MouseBinding{
			Button:    mouseButtonNames[m.Button],
			Modifiers: parseModifiers(m.Modifiers),
			Modes:     parseModes(m.Modes),
			Actions:   parseActions(m.Actions),
		})
	}
	return bt, nil
}

var modifierNames = map[string]input.Modifiers{
	"shift":   input.ModShift,
	"control": input.ModControl,
	"alt":     input.ModAlt,
	"super":   input.ModSuper,
}

var modeFlagNames = map[string]session.ModeFlag{
	"alternate_screen": session.FlagAlternateScreen,
	"app_cursor":       session.FlagAppCursor,
	"app_keypad":       session.FlagAppKeypad,
	"select":           session.FlagSelect,
	"insert":           session.FlagInsert,
	"search":           session.FlagSearch,
	"trace":            session.FlagTrace,
}

var mouseButtonNames = map[string]input.MouseButton{
	"left":       input.MouseLeft,
	"middle":     input.MouseMiddle,
	"right":      input.MouseRight,
	"wheel_up":   input.MouseWheelUp,
	"wheel_down": input.MouseWheelDown,
}

// actionNames is the YAML vocabulary for the closed action set spec
// §4.5 enumerates, keyed by snake_case name.
var actionNames = map[string]session.Action{
	"cancel_selection":            session.ActionCancelSelection,
	"change_profile":              session.ActionChangeProfile,
	"clear_history_and_reset":     session.ActionClearHistoryAndReset,
	"copy_previous_mark_range":    session.ActionCopyPreviousMarkRange,
	"copy_selection":              session.ActionCopySelection,
	"create_debug_dump":           session.ActionCreateDebugDump,
	"decrease_font_size":          session.ActionDecreaseFontSize,
	"increase_font_size":          session.ActionIncreaseFontSize,
	"decrease_opacity":            session.ActionDecreaseOpacity,
	"increase_opacity":            session.ActionIncreaseOpacity,
	"focus_next_search_match":     session.ActionFocusNextSearchMatch,
	"focus_previous_search_match": session.ActionFocusPreviousSearchMatch,
	"follow_hyperlink":            session.ActionFollowHyperlink,
	"new_terminal":                session.ActionNewTerminal,
	"no_search_highlight":         session.ActionNoSearchHighlight,
	"open_configuration":          session.ActionOpenConfiguration,
	"open_file_manager":           session.ActionOpenFileManager,
	"open_selection":              session.ActionOpenSelection,
	"paste_clipboard":             session.ActionPasteClipboard,
	"paste_selection":             session.ActionPasteSelection,
	"quit":                        session.ActionQuit,
	"reload_config":               session.ActionReloadConfig,
	"reset_config":                session.ActionResetConfig,
	"reset_font_size":             session.ActionResetFontSize,
	"screenshot_vt":               session.ActionScreenshotVT,
	"scroll_up":                   session.ActionScrollUp,
	"scroll_down":                 session.ActionScrollDown,
	"scroll_page_up":              session.ActionScrollPageUp,
	"scroll_page_down":            session.ActionScrollPageDown,
	"scroll_mark_up":              session.ActionScrollMarkUp,
	"scroll_mark_down":            session.ActionScrollMarkDown,
	"scroll_one_up":               session.ActionScrollOneUp,
	"scroll_one_down":             session.ActionScrollOneDown,
	"scroll_to_top":               session.ActionScrollToTop,
	"scroll_to_bottom":            session.ActionScrollToBottom,
	"search":                      session.ActionSearch,
	"search_reverse":              session.ActionSearchReverse,
	"send_chars":                  session.ActionSendChars,
	"toggle_all_key_maps":         session.ActionToggleAllKeyMaps,
	"toggle_fullscreen":           session.ActionToggleFullscreen,
	"toggle_input_protection":     session.ActionToggleInputProtection,
	"toggle_status_line":          session.ActionToggleStatusLine,
	"toggle_title_bar":            session.ActionToggleTitleBar,
	"trace_enter":                 session.ActionTraceEnter,
	"trace_leave":                 session.ActionTraceLeave,
	"trace_step":                  session.ActionTraceStep,
	"trace_break_at_empty_queue":  session.ActionTraceBreakAtEmptyQueue,
	"vi_normal_mode":              session.ActionViNormalMode,
	"write_screen":                session.ActionWriteScreen,
}

var keyNames = map[string]input.Key{
	"up": input.KeyUp, "down": input.KeyDown, "left": input.KeyLeft, "right": input.KeyRight,
	"home": input.KeyHome, "end": input.KeyEnd, "page_up": input.KeyPageUp, "page_down": input.KeyPageDown,
	"insert": input.KeyInsert, "delete": input.KeyDelete, "backspace": input.KeyBackspace,
	"enter": input.KeyEnter, "tab": input.KeyTab, "escape": input.KeyEscape, "space": input.KeySpace,
	"f1": input.KeyF1, "f2": input.KeyF2, "f3": input.KeyF3, "f4": input.KeyF4,
	"f5": input.KeyF5, "f6": input.KeyF6, "f7": input.KeyF7, "f8": input.KeyF8,
	"f9": input.KeyF9, "f10": input.KeyF10, "f11": input.KeyF11, "f12": input.KeyF12,
	"a": input.KeyA, "b": input.KeyA + 1, "c": input.KeyA + 2, "d": input.KeyA + 3,
	"e": input.KeyA + 4, "f": input.KeyA + 5, "g": input.KeyA + 6, "h": input.KeyA + 7,
	"i": input.KeyA + 8, "j": input.KeyA + 9, "k": input.KeyA + 10, "l": input.KeyA + 11,
	"m": input.KeyA + 12, "n": input.KeyA + 13, "o": input.KeyA + 14, "p": input.KeyA + 15,
	"q": input.KeyA + 16, "r": input.KeyA + 17, "s": input.KeyA + 18, "t": input.KeyA + 19,
	"u": input.KeyA + 20, "v": input.KeyA + 21, "w": input.KeyA + 22, "x": input.KeyA + 23,
	"y": input.KeyA + 24, "z": input.KeyZ,
}
