package config

import (
	"testing"

	"github.com/dgterm/vtcore/internal/session"
)

func TestKeyMappingValidateRejectsUnknownKey(t *testing.T) {
	m := KeyMapping{Key: "nope", Actions: []string{"quit"}}
	if err := m.validate(); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestKeyMappingValidateRejectsUnknownAction(t *testing.T) {
	m := KeyMapping{Key: "up", Actions: []string{"not_a_real_action"}}
	if err := m.validate(); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestKeyMappingValidateRejectsNoActions(t *testing.T) {
	m := KeyMapping{Key: "up"}
	if err := m.validate(); err == nil {
		t.Fatal("expected error for empty actions list")
	}
}

func TestKeyMappingValidateRejectsUnknownModifier(t *testing.T) {
	m := KeyMapping{Key: "up", Modifiers: []string{"hyper"}, Actions: []string{"quit"}}
	if err := m.validate(); err == nil {
		t.Fatal("expected error for unknown modifier")
	}
}

func TestKeyMappingValidateRejectsBadModeState(t *testing.T) {
	m := KeyMapping{Key: "up", Modes: Modes{"select": "maybe"}, Actions: []string{"quit"}}
	if err := m.validate(); err == nil {
		t.Fatal("expected error for non enabled/disabled mode state")
	}
}

func TestKeyMappingValidateAcceptsWellFormed(t *testing.T) {
	m := KeyMapping{
		Key:       "up",
		Modifiers: []string{"control", "shift"},
		Modes:     Modes{"select": "enabled"},
		Actions:   []string{"scroll_up"},
	}
	if err := m.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestCharMappingValidateRequiresSingleRune(t *testing.T) {
	if err := (CharMapping{Char: "ab", Actions: []string{"quit"}}).validate(); err == nil {
		t.Fatal("expected error for multi-rune char")
	}
	if err := (CharMapping{Char: "", Actions: []string{"quit"}}).validate(); err == nil {
		t.Fatal("expected error for empty char")
	}
	if err := (CharMapping{Char: "q", Actions: []string{"quit"}}).validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestMouseMappingValidateRejectsUnknownButton(t *testing.T) {
	m := MouseMapping{Button: "stylus", Actions: []string{"paste_selection"}}
	if err := m.validate(); err == nil {
		t.Fatal("expected error for unknown mouse button")
	}
}

func TestConfigBindingTableAppendsAfterDefaults(t *testing.T) {
	c := &Config{
		KeyMappings: []KeyMapping{{Key: "f1", Actions: []string{"toggle_fullscreen"}}},
		CharMappings: []CharMapping{
			{Char: "q", Modifiers: []string{"control"}, Actions: []string{"quit"}},
		},
		MouseMappings: []MouseMapping{
			{Button: "wheel_up", Actions: []string{"scroll_one_up"}},
		},
	}
	bt, err := c.BindingTable()
	if err != nil {
		t.Fatalf("BindingTable: %v", err)
	}
	defaultCount := len(session.DefaultBindingTable().Keys)
	if len(bt.Keys) != defaultCount+1 {
		t.Fatalf("keys = %d, want %d", len(bt.Keys), defaultCount+1)
	}
	last := bt.Keys[len(bt.Keys)-1]
	if last.Key != keyNames["f1"] {
		t.Errorf("appended key binding = %+v", last)
	}
	if len(bt.Chars) == 0 || bt.Chars[len(bt.Chars)-1].Char != 'q' {
		t.Errorf("appended char binding missing")
	}
	if len(bt.Mouse) == 0 || bt.Mouse[len(bt.Mouse)-1].Button != mouseButtonNames["wheel_up"] {
		t.Errorf("appended mouse binding missing")
	}
}

func TestConfigBindingTableRejectsInvalidEntry(t *testing.T) {
	c := &Config{KeyMappings: []KeyMapping{{Key: "bogus", Actions: []string{"quit"}}}}
	if _, err := c.BindingTable(); err == nil {
		t.Fatal("expected error from invalid key mapping")
	}
}
