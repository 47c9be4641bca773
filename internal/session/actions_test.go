package session

import (
	"testing"

	"github.com/dgterm/vtcore/internal/screen"
)

type fakeClipboard struct {
	written map[string][]byte
	read    map[string][]byte
}

func newFakeClipboard() *fakeClipboard {
	return &fakeClipboard{written: map[string][]byte{}, read: map[string][]byte{}}
}

func (f *fakeClipboard) WriteClipboard(selection string, data []byte) {
	f.written[selection] = append([]byte(nil), data...)
}

func (f *fakeClipboard) ReadClipboard(selection string) []byte { return f.read[selection] }

func TestDispatchToggleAllKeyMapsSpecialCase(t *testing.T) {
	s, _ := newTestSession(t)

	if !s.dispatch([]Action{ActionToggleAllKeyMaps}, ActionArgs{}) {
		t.Fatalf("expected toggle action to run")
	}
	if !s.keyMapsDisabled {
		t.Fatalf("expected key maps disabled after toggle")
	}

	if s.dispatch([]Action{ActionCancelSelection}, ActionArgs{}) {
		t.Fatalf("expected ordinary action list to be blocked while key maps are disabled")
	}

	if !s.dispatch([]Action{ActionCancelSelection, ActionToggleAllKeyMaps}, ActionArgs{}) {
		t.Fatalf("expected action list containing ToggleAllKeyMaps to still run while disabled")
	}
	if s.keyMapsDisabled {
		t.Fatalf("expected key maps re-enabled after second toggle")
	}
}

func TestScrollActionsClampToScrollbackLen(t *testing.T) {
	s, _ := newTestSession(t)

	if s.dispatch([]Action{ActionScrollUp}, ActionArgs{}) {
		t.Fatalf("expected ScrollUp to report no change with empty scrollback")
	}
	if s.scrollOffset != 0 {
		t.Fatalf("scrollOffset = %d want 0 (nothing to scroll back into)", s.scrollOffset)
	}

	if s.dispatch([]Action{ActionScrollDown}, ActionArgs{}) {
		t.Fatalf("expected ScrollDown to report no change already at live viewport")
	}
}

func TestCopySelectionUsesClipboardProvider(t *testing.T) {
	ch := newFakeChannel()
	clip := newFakeClipboard()
	s := New(ch, 1, 10, WithClipboard(clip))
	if err := s.Start(1, 10); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, r := range "ab" {
		s.scr.Print(r)
	}
	s.scr.SetSelection(screen.Position{Row: 0, Col: 0}, screen.Position{Row: 0, Col: 1}, screen.SelectionLinear)
	if !s.dispatch([]Action{ActionCopySelection}, ActionArgs{}) {
		t.Fatalf("expected CopySelection to report it ran")
	}
	if clip.written["c"] == nil {
		t.Fatalf("expected clipboard write")
	}
}

func TestPasteClipboardNoopWithoutProvider(t *testing.T) {
	s, _ := newTestSession(t)
	if s.dispatch([]Action{ActionPasteClipboard}, ActionArgs{}) {
		t.Fatalf("expected PasteClipboard to report false with no clipboard provider configured")
	}
}

func TestClearHistoryAndResetClearsScrollOffset(t *testing.T) {
	s, _ := newTestSession(t)
	s.scrollOffset = 3
	if !s.dispatch([]Action{ActionClearHistoryAndReset}, ActionArgs{}) {
		t.Fatalf("expected ClearHistoryAndReset to report it ran")
	}
	if s.scrollOffset != 0 {
		t.Fatalf("scrollOffset = %d want 0", s.scrollOffset)
	}
}

func TestOutOfScopeActionsReturnFalse(t *testing.T) {
	s, _ := newTestSession(t)
	outOfScope := []Action{
		ActionQuit, ActionNewTerminal, ActionToggleFullscreen, ActionCreateDebugDump,
		ActionScreenshotVT, ActionChangeProfile, ActionReloadConfig, ActionFollowHyperlink,
	}
	for _, a := range outOfScope {
		if s.dispatch([]Action{a}, ActionArgs{}) {
			t.Fatalf("action %d expected to report false (out of this core's scope)", a)
		}
	}
}
