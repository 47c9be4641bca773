package session

import (
	"strings"

	"github.com/dgterm/vtcore/internal/input"
	"github.com/dgterm/vtcore/internal/screen"
	"github.com/dgterm/vtcore/internal/vicmd"
)

// operator is a pending vi operator waiting for the motion or text object
// that names its target range (spec §4.4's Operators, minus MoveCursor,
// which is the default — a bare motion with no operator pending).
type operator uint8

const (
	opNone operator = iota
	opYank
)

// findWait remembers which of f/F/t/T is waiting for its target rune.
type findWait struct {
	forward, till bool
}

// pending is the vi-Normal command currently being assembled: a count
// prefix, an operator awaiting its target, a "g"/"z" prefix awaiting its
// second key, an "i"/"a" scope awaiting its object-kind key, or an f/F/t/T
// awaiting its target char. At most one of the "awaiting a second key"
// fields is set at a time; count and operator persist across them until a
// complete command resolves, at which point the whole struct is reset.
type pending struct {
	count      int
	operator   operator
	prefix     rune
	awaitFind  *findWait
	awaitScope *vicmd.TextObjectScope
}

func (p *pending) effectiveCount() int {
	if p.count < 1 {
		return 1
	}
	return p.count
}

func (p *pending) reset() { *p = pending{} }

// viKey handles vi-Normal key events that aren't plain runes: Escape
// (leave the current vi submode), Ctrl-O/Ctrl-I, which walk the jump list
// the way vim's own bindings do (spec §4.4's jump history, wired to an
// actual input path rather than left reachable only from tests), and
// PageUp/PageDown.
func (s *Session) viKey(key input.Key, mods input.Modifiers) bool {
	if key == input.KeyEscape {
		s.vi.reset()
		switch s.nav.Mode() {
		case vicmd.ModeVisual, vicmd.ModeVisualLine, vicmd.ModeVisualBlock:
			s.nav.EnterVisual(vicmd.ModeNormal)
			return true
		case vicmd.ModeNormal:
			s.nav.ToggleNormalMode()
			return true
		}
		return false
	}
	if mods&input.ModControl != 0 {
		switch key {
		case input.KeyA + 14: // 'O', vim's jump-list-back binding
			return s.nav.JumpBack()
		case input.KeyA + 8: // 'I', vim's jump-list-forward binding
			return s.nav.JumpForward()
		}
	}
	switch key {
	case input.KeyPageUp:
		count := s.vi.effectiveCount()
		s.vi.reset()
		s.nav.Move(vicmd.MotionPageUp, count)
		return true
	case input.KeyPageDown:
		count := s.vi.effectiveCount()
		s.vi.reset()
		s.nav.Move(vicmd.MotionPageDown, count)
		return true
	}
	return false
}

// viChar resolves one typed rune against the in-progress pending command,
// implementing spec §4.4's Operators/Motions/TextObjects grammar: digits
// accumulate a count, an operator letter (y) waits for the motion or text
// object that completes it, "g"/"z" wait for a second key, f/F/t/T wait
// for their target rune, and plain motion letters apply directly (or, with
// an operator pending, complete that operator instead of just moving).
func (s *Session) viChar(r rune) bool {
	p := &s.vi

	if p.awaitFind != nil {
		fw := *p.awaitFind
		count := p.effectiveCount()
		p.reset()
		return s.nav.MoveFind(r, fw.forward, fw.till, count)
	}

	if p.prefix != 0 {
		return s.viPrefixed(r)
	}

	if p.awaitScope != nil {
		scope := *p.awaitScope
		op := p.operator
		p.reset()
		return s.viTextObject(scope, r, op)
	}

	if r >= '1' && r <= '9' || r == '0' && p.count > 0 {
		p.count = p.count*10 + int(r-'0')
		return true
	}

	switch r {
	case 'v':
		p.reset()
		s.toggleVisual(vicmd.ModeVisual)
		return true
	case 'V':
		p.reset()
		s.toggleVisual(vicmd.ModeVisualLine)
		return true
	case 'g', 'z':
		p.prefix = r
		return true
	case 'f', 'F', 't', 'T':
		p.awaitFind = &findWait{forward: r == 'f' || r == 't', till: r == 't' || r == 'T'}
		return true
	case ';':
		count := p.effectiveCount()
		p.reset()
		return s.nav.RepeatFind(false, count)
	case ',':
		count := p.effectiveCount()
		p.reset()
		return s.nav.RepeatFind(true, count)
	case 'i', 'a':
		if p.operator == opNone && !s.inVisualMode() {
			p.reset()
			return false
		}
		scope := vicmd.ScopeInner
		if r == 'a' {
			scope = vicmd.ScopeA
		}
		p.awaitScope = &scope
		return true
	case 'y':
		if s.inVisualMode() {
			p.reset()
			s.clipboardCopy(s.scr.GetSelectedText())
			s.nav.EnterVisual(vicmd.ModeNormal)
			return true
		}
		if p.operator == opYank {
			count := p.effectiveCount()
			p.reset()
			return s.yankLines(count)
		}
		p.operator = opYank
		return true
	case 'p':
		count := p.effectiveCount()
		p.reset()
		return s.pasteOperator(count, false)
	case 'P':
		count := p.effectiveCount()
		p.reset()
		return s.pasteOperator(count, true)
	case '#':
		p.reset()
		return s.reverseSearchCurrentWord()
	}

	if m, ok := charMotion(r); ok {
		count := p.effectiveCount()
		op := p.operator
		p.reset()
		return s.applyMotion(m, count, op)
	}

	p.reset()
	return false
}

func (s *Session) inVisualMode() bool {
	switch s.nav.Mode() {
	case vicmd.ModeVisual, vicmd.ModeVisualLine, vicmd.ModeVisualBlock:
		return true
	}
	return false
}

// viPrefixed completes a pending "g"/"z" two-key sequence: "gg" is
// MotionFileStart (spec's FileBegin, previously unreachable — only G was
// wired), "gx" is the Open operator (vim's conventional binding for
// "launch hyperlink-like action on selection"), "zz" is CenterCursor.
func (s *Session) viPrefixed(r rune) bool {
	p := &s.vi
	prefix := p.prefix
	count := p.effectiveCount()
	op := p.operator
	p.reset()

	switch prefix {
	case 'g':
		switch r {
		case 'g':
			return s.applyMotion(vicmd.MotionFileStart, count, op)
		case 'x':
			return s.openUnderCursor()
		}
	case 'z':
		if r == 'z' {
			s.nav.Move(vicmd.MotionCenterCursor, 1)
			return true
		}
	}
	return false
}

// charMotion maps a plain motion key to its Motion, spec §4.4's catalogue
// of single-key motions (count and any pending operator are applied by
// the caller).
func charMotion(r rune) (vicmd.Motion, bool) {
	switch r {
	case 'h':
		return vicmd.MotionLeft, true
	case 'l':
		return vicmd.MotionRight, true
	case 'j':
		return vicmd.MotionDown, true
	case 'k':
		return vicmd.MotionUp, true
	case 'w':
		return vicmd.MotionWordForward, true
	case 'b':
		return vicmd.MotionWordBackward, true
	case 'e':
		return vicmd.MotionWordEnd, true
	case 'W':
		return vicmd.MotionBigWordForward, true
	case 'B':
		return vicmd.MotionBigWordBackward, true
	case 'E':
		return vicmd.MotionBigWordEnd, true
	case '0':
		return vicmd.MotionLineStart, true
	case '^':
		return vicmd.MotionFirstNonBlank, true
	case '$':
		return vicmd.MotionLineEnd, true
	case 'G':
		return vicmd.MotionFileEnd, true
	case '%':
		return vicmd.MotionParenthesisMatching, true
	case '{':
		return vicmd.MotionParagraphBackward, true
	case '}':
		return vicmd.MotionParagraphForward, true
	case 'H':
		return vicmd.MotionPageTop, true
	case 'M':
		return vicmd.MotionPageCenter, true
	case 'L':
		return vicmd.MotionPageBottom, true
	case 'n':
		return vicmd.MotionSearchResultForward, true
	case 'N':
		return vicmd.MotionSearchResultBackward, true
	}
	return 0, false
}

// kindFromRune maps an object-kind key (the character following "i"/"a")
// to its TextObjectKind, spec §4.4's object half of a text object.
func kindFromRune(r rune) (vicmd.TextObjectKind, bool) {
	switch r {
	case 'w':
		return vicmd.KindWord, true
	case 'W':
		return vicmd.KindBigWord, true
	case 'l':
		return vicmd.KindLine, true
	case 'p':
		return vicmd.KindParagraph, true
	case 'm':
		return vicmd.KindLineMark, true
	case '(', ')', 'b':
		return vicmd.KindRoundBrackets, true
	case '[', ']':
		return vicmd.KindSquareBrackets, true
	case '{', '}', 'B':
		return vicmd.KindCurlyBrackets, true
	case '<', '>':
		return vicmd.KindAngleBrackets, true
	case '\'':
		return vicmd.KindSingleQuotes, true
	case '"':
		return vicmd.KindDoubleQuotes, true
	case '`':
		return vicmd.KindBackQuotes, true
	}
	return 0, false
}

// applyMotion applies m to the navigator. With no operator pending that's
// the whole command (MoveCursor). With one pending, the motion instead
// names the end of the operator's target range, spec's "operator +
// motion" composition.
func (s *Session) applyMotion(m vicmd.Motion, count int, op operator) bool {
	if op == opNone {
		s.nav.Move(m, count)
		return true
	}
	start := s.nav.Position()
	s.nav.Move(m, count)
	end := s.nav.Position()
	return s.finishOperator(op, start, end)
}

// viTextObject resolves an "i"/"a" + kind sequence to a range and either
// completes a pending operator against it ("yiw") or, with no operator
// pending inside an active visual mode, selects it directly ("viw") —
// the two places spec §4.4's text objects are actually used from.
func (s *Session) viTextObject(scope vicmd.TextObjectScope, r rune, op operator) bool {
	kind, ok := kindFromRune(r)
	if !ok {
		return false
	}
	start, end, ok := s.nav.SelectTextObject(vicmd.TextObject{Scope: scope, Kind: kind})
	if !ok {
		return false
	}
	if op == opNone {
		s.nav.SelectRange(start, end)
		return true
	}
	return s.finishOperator(op, start, end)
}

func (s *Session) finishOperator(op operator, start, end screen.Position) bool {
	switch op {
	case opYank:
		return s.yankRange(start, end)
	}
	return false
}

// yankRange extracts [start,end] (order-independent) via a transient
// selection — the same SetSelection/GetSelectedText round trip visual-mode
// yank already uses — copies it to the clipboard collaborator, and leaves
// the cursor at the range's start, vim's own convention for where yank
// parks the cursor.
func (s *Session) yankRange(start, end screen.Position) bool {
	if end.Before(start) {
		start, end = end, start
	}
	s.scr.SetSelection(start, end, screen.SelectionLinear)
	text := s.scr.GetSelectedText()
	s.scr.ClearSelection()
	if text == "" {
		return false
	}
	s.nav.SetPosition(start)
	return s.clipboardCopy(text)
}

// yankLines implements "yy": count whole physical lines starting at the
// cursor's row.
func (s *Session) yankLines(count int) bool {
	row := s.nav.Position().Row
	start := screen.Position{Row: row, Col: 0}
	end := screen.Position{Row: row + count - 1, Col: s.scr.Cols() - 1}
	return s.yankRange(start, end)
}

// pasteOperator implements Paste ("p") and PasteStripped ("P", spec's
// "stripped" variant — leading/trailing whitespace removed before it
// reaches the guest).
func (s *Session) pasteOperator(count int, stripped bool) bool {
	if s.clipboard == nil {
		return false
	}
	text := string(s.clipboard.ReadClipboard("c"))
	if stripped {
		text = strings.TrimSpace(text)
	}
	if text == "" {
		return false
	}
	for i := 0; i < count; i++ {
		s.pasteLocked(text)
	}
	return true
}

// reverseSearchCurrentWord implements ReverseSearchCurrentWord ("#"):
// grab the word under the cursor, make it the active search pattern, and
// jump to its previous occurrence — vim's own "#" semantics.
func (s *Session) reverseSearchCurrentWord() bool {
	start, end, ok := s.nav.SelectTextObject(vicmd.TextObject{Scope: vicmd.ScopeInner, Kind: vicmd.KindWord})
	if !ok {
		return false
	}
	s.scr.SetSelection(start, end, screen.SelectionLinear)
	word := s.scr.GetSelectedText()
	s.scr.ClearSelection()
	if word == "" {
		return false
	}
	s.nav.SetSearch(word)
	s.nav.Move(vicmd.MotionSearchResultBackward, 1)
	return true
}

// openUnderCursor implements Open ("gx"): launch a hyperlink-like action
// on the active selection, or the word under the cursor when there is
// none. The actual launch is ActionOpenSelection, an app-shell concern
// this core deliberately doesn't perform itself (see actions.go); this
// just makes the operator reachable with its target text attached.
func (s *Session) openUnderCursor() bool {
	var text string
	if s.scr.HasSelection() {
		text = s.scr.GetSelectedText()
	} else if start, end, ok := s.nav.SelectTextObject(vicmd.TextObject{Scope: vicmd.ScopeInner, Kind: vicmd.KindWord}); ok {
		s.scr.SetSelection(start, end, screen.SelectionLinear)
		text = s.scr.GetSelectedText()
		s.scr.ClearSelection()
	}
	if text == "" {
		return false
	}
	return s.dispatch([]Action{ActionOpenSelection}, ActionArgs{Text: text})
}

func (s *Session) toggleVisual(mode vicmd.Mode) {
	if s.nav.Mode() == mode {
		s.nav.EnterVisual(vicmd.ModeNormal)
		return
	}
	s.nav.EnterVisual(mode)
}
