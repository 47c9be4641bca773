package session

import "testing"

func TestMatchModesTriStates(t *testing.T) {
	m := anyModes().WithMode(FlagInsert, TriEnabled).WithMode(FlagSelect, TriDisabled)

	match := modeState{}
	match[FlagInsert] = true
	if !m.matches(match) {
		t.Fatalf("expected match: insert enabled, select disabled, both satisfied")
	}

	match[FlagSelect] = true
	if m.matches(match) {
		t.Fatalf("expected no match: select required disabled but actual true")
	}

	match[FlagSelect] = false
	match[FlagInsert] = false
	if m.matches(match) {
		t.Fatalf("expected no match: insert required enabled but actual false")
	}
}

func TestMatchModesAnyNeverConstrains(t *testing.T) {
	m := anyModes()
	if !m.matches(modeState{true, true, true, true, true, true, true}) {
		t.Fatalf("all-Any mask should match any state")
	}
}

func TestCurrentModeStateReflectsViEngagement(t *testing.T) {
	s, _ := newTestSession(t)

	state := s.currentModeState()
	if !state[FlagInsert] {
		t.Fatalf("fresh session should report FlagInsert true (vi navigation disengaged)")
	}

	s.nav.ToggleNormalMode()
	state = s.currentModeState()
	if state[FlagInsert] {
		t.Fatalf("FlagInsert should be false once vi navigation is engaged")
	}
}

func TestDefaultBindingTableEscapeEntersNormalModeFromInsert(t *testing.T) {
	s, _ := newTestSession(t)
	if s.nav.Active() {
		t.Fatalf("fresh session should start with vi navigation disengaged")
	}

	consumed := s.dispatch(s.bindings.Keys[0].Actions, ActionArgs{})
	if !consumed {
		t.Fatalf("expected ActionViNormalMode to report it ran")
	}
	if !s.nav.Active() {
		t.Fatalf("expected vi navigation engaged after ActionViNormalMode from Insert")
	}
}
