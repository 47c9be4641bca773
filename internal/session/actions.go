package session

// Action is one member of the closed action set spec §4.5 enumerates.
// Handlers are pure methods on Session; each returns whether the action
// applied, for UI feedback (spec's exact wording).
type Action int

const (
	ActionCancelSelection Action = iota
	ActionChangeProfile
	ActionClearHistoryAndReset
	ActionCopyPreviousMarkRange
	ActionCopySelection
	ActionCreateDebugDump
	ActionDecreaseFontSize
	ActionIncreaseFontSize
	ActionDecreaseOpacity
	ActionIncreaseOpacity
	ActionFocusNextSearchMatch
	ActionFocusPreviousSearchMatch
	ActionFollowHyperlink
	ActionNewTerminal
	ActionNoSearchHighlight
	ActionOpenConfiguration
	ActionOpenFileManager
	ActionOpenSelection
	ActionPasteClipboard
	ActionPasteSelection
	ActionQuit
	ActionReloadConfig
	ActionResetConfig
	ActionResetFontSize
	ActionScreenshotVT
	ActionScrollUp
	ActionScrollDown
	ActionScrollPageUp
	ActionScrollPageDown
	ActionScrollMarkUp
	ActionScrollMarkDown
	ActionScrollOneUp
	ActionScrollOneDown
	ActionScrollToTop
	ActionScrollToBottom
	ActionSearch
	ActionSearchReverse
	ActionSendChars
	ActionToggleAllKeyMaps
	ActionToggleFullscreen
	ActionToggleInputProtection
	ActionToggleStatusLine
	ActionToggleTitleBar
	ActionTraceEnter
	ActionTraceLeave
	ActionTraceStep
	ActionTraceBreakAtEmptyQueue
	ActionViNormalMode
	ActionWriteScreen
)

// ActionArgs carries the optional payload a handful of actions need
// (SendChars' text, CopySelection's format, WriteScreen's text). Unused
// fields are left zero.
type ActionArgs struct {
	Text   string
	Format ClipboardFormat
}

// ClipboardFormat selects how CopySelection / CopyPreviousMarkRange
// serialize the copied range.
type ClipboardFormat uint8

const (
	ClipboardPlainText ClipboardFormat = iota
	ClipboardHTML
)

// Dispatch runs the action list for a matched binding, stopping at the
// first disabled-by-ToggleAllKeyMaps check (spec §4.5's special case:
// "when key mappings are globally disabled, only action lists that
// contain ToggleAllKeyMaps are still executed"). Must be called with
// s.mu held.
func (s *Session) dispatch(actions []Action, args ActionArgs) bool {
	if s.keyMapsDisabled && !containsToggleAllKeyMaps(actions) {
		return false
	}
	ran := false
	for _, a := range actions {
		if s.runAction(a, args) {
			ran = true
		}
	}
	return ran
}

func containsToggleAllKeyMaps(actions []Action) bool {
	for _, a := range actions {
		if a == ActionToggleAllKeyMaps {
			return true
		}
	}
	return false
}

// runAction executes one action. Actions that are purely an app-shell
// concern (window chrome, process lifecycle, config file I/O) are out
// of this core's scope per spec §1/§6; they return false here and are
// expected to be handled by a higher layer that embeds Session — listed
// explicitly in DESIGN.md rather than silently dropped.
func (s *Session) runAction(a Action, args ActionArgs) bool {
	switch a {
	case ActionCancelSelection:
		s.scr.ClearSelection()
		return true
	case ActionCopySelection:
		return s.clipboardCopy(s.scr.GetSelectedText())
	case ActionCopyPreviousMarkRange:
		return s.copyPreviousMarkRange()
	case ActionPasteClipboard:
		if s.clipboard == nil {
			return false
		}
		s.pasteLocked(string(s.clipboard.ReadClipboard("c")))
		return true
	case ActionPasteSelection:
		s.pasteLocked(s.scr.GetSelectedText())
		return true
	case ActionClearHistoryAndReset:
		s.scr.ClearScrollback()
		s.scr.Reset()
		s.scrollOffset = 0
		return true
	case ActionFollowHyperlink:
		return false // requires a UI-layer URL opener; not this core's concern
	case ActionScrollUp:
		return s.scrollBy(1)
	case ActionScrollDown:
		return s.scrollBy(-1)
	case ActionScrollOneUp:
		return s.scrollBy(1)
	case ActionScrollOneDown:
		return s.scrollBy(-1)
	case ActionScrollPageUp:
		return s.scrollBy(s.scr.Rows())
	case ActionScrollPageDown:
		return s.scrollBy(-s.scr.Rows())
	case ActionScrollToTop:
		return s.scrollTo(s.scr.ScrollbackLen())
	case ActionScrollToBottom:
		return s.scrollTo(0)
	case ActionScrollMarkUp:
		return s.scrollToMark(-1)
	case ActionScrollMarkDown:
		return s.scrollToMark(1)
	case ActionSearch:
		s.searching = true
		return true
	case ActionSearchReverse:
		s.searching = true
		return true
	case ActionNoSearchHighlight:
		s.searching = false
		return true
	case ActionFocusNextSearchMatch, ActionFocusPreviousSearchMatch:
		return false // requires a remembered match cursor; UI/render-layer state
	case ActionSendChars:
		s.writeRaw([]byte(args.Text))
		return true
	case ActionWriteScreen:
		for _, r := range args.Text {
			s.scr.Print(r)
		}
		return true
	case ActionViNormalMode:
		s.nav.ToggleNormalMode()
		return true
	case ActionToggleAllKeyMaps:
		s.keyMapsDisabled = !s.keyMapsDisabled
		return true
	case ActionToggleInputProtection:
		return false // renderer/UI-chrome concern, not modeled in this core
	case ActionTraceEnter:
		s.tracing = true
		return true
	case ActionTraceLeave:
		s.tracing = false
		return true
	case ActionTraceStep, ActionTraceBreakAtEmptyQueue:
		return false // paused single-stepping needs a debugger-side driver this core doesn't own
	case ActionCreateDebugDump, ActionScreenshotVT:
		return false // rasterizer/dump-to-disk, explicit non-goals (SPEC_FULL.md §6)
	case ActionChangeProfile, ActionReloadConfig, ActionResetConfig, ActionOpenConfiguration:
		return false // config-collaborator lifecycle, owned by internal/config's caller
	case ActionNewTerminal, ActionQuit, ActionToggleFullscreen, ActionToggleTitleBar,
		ActionOpenFileManager, ActionOpenSelection, ActionDecreaseFontSize, ActionIncreaseFontSize,
		ActionDecreaseOpacity, ActionIncreaseOpacity, ActionResetFontSize, ActionToggleStatusLine:
		return false // window-chrome / process-lifecycle actions; app shell's responsibility
	}
	return false
}

func (s *Session) clipboardCopy(text string) bool {
	if s.clipboard == nil || text == "" {
		return false
	}
	s.clipboard.WriteClipboard("c", []byte(text))
	return true
}

func (s *Session) copyPreviousMarkRange() bool {
	return s.clipboardCopy(s.scr.LastCommandOutput())
}

// scrollBy adjusts the scrollback viewport offset by delta lines
// (positive scrolls back into history), clamped to [0, ScrollbackLen()].
// This core has no renderer of its own (spec §1 non-goal), so the
// "scroll" actions only maintain the offset; a UI layer reads it via
// ScrollOffset to choose which scrollback lines to paint.
func (s *Session) scrollBy(delta int) bool {
	return s.scrollTo(s.scrollOffset + delta)
}

func (s *Session) scrollTo(offset int) bool {
	max := s.scr.ScrollbackLen()
	if offset < 0 {
		offset = 0
	}
	if offset > max {
		offset = max
	}
	changed := offset != s.scrollOffset
	s.scrollOffset = offset
	return changed
}

func (s *Session) scrollToMark(dir int) bool {
	marks := s.scr.PromptMarks().All()
	if len(marks) == 0 {
		return false
	}
	target := -1
	if dir < 0 {
		for i := len(marks) - 1; i >= 0; i-- {
			if marks[i].Row < s.scr.ScrollbackLen()-s.scrollOffset {
				target = marks[i].Row
				break
			}
		}
	} else {
		for _, m := range marks {
			if m.Row > s.scr.ScrollbackLen()-s.scrollOffset {
				target = m.Row
				break
			}
		}
	}
	if target < 0 {
		return false
	}
	return s.scrollTo(s.scr.ScrollbackLen() - target)
}

// ScrollOffset returns the current scrollback viewport offset in lines
// (0 == live viewport).
func (s *Session) ScrollOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollOffset
}
