// Package vicmd implements the vi-style modal navigation layer described
// by the original contour-terminal/contour implementation's ViCommands.cpp:
// an Insert/Normal/Visual/VisualLine/VisualBlock mode set, motions and
// text objects over the screen grid, and a bounded jump history. No pack
// example implements terminal-side vi emulation, so this package is
// written fresh in the teacher's idiom (small mode type, explicit structs,
// no hidden global state) rather than adapted from existing Go source.
package vicmd

import "github.com/dgterm/vtcore/internal/screen"

// Mode is the active modal-editing mode. Insert is normal terminal
// pass-through (vi navigation disengaged); the other four are vi modes
// proper, matching the original ViCommands.cpp's ViMode enum.
type Mode uint8

const (
	ModeInsert Mode = iota
	ModeNormal
	ModeVisual
	ModeVisualLine
	ModeVisualBlock
)

// Motion identifies a cursor movement command, spec §4.4's "Motions"
// list. Left/Right/Up/Down, the word and big-word motions and the
// paragraph motions repeat count times (count < 1 means 1); ScreenColumn
// uses count as the target column; every other motion ignores count.
type Motion uint8

const (
	MotionLeft Motion = iota
	MotionRight
	MotionUp
	MotionDown
	MotionWordForward
	MotionWordBackward
	MotionWordEnd
	MotionBigWordForward
	MotionBigWordBackward
	MotionBigWordEnd
	MotionLineStart
	MotionLineEnd
	MotionFirstNonBlank
	MotionScreenColumn
	MotionFileStart
	MotionFileEnd
	MotionPageUp
	MotionPageDown
	MotionPageTop
	MotionPageBottom
	MotionPageCenter
	MotionCenterCursor
	MotionParagraphForward
	MotionParagraphBackward
	MotionParenthesisMatching
	MotionSearchResultForward
	MotionSearchResultBackward
	MotionJumpToLastJumpPoint
	MotionJumpToMarkForward
	MotionJumpToMarkBackward
)

// TillBefore-Char/TillAfter-Char/ToChar (spec §4.4's f/F/t/T family) are
// not Motion values: each needs a target rune alongside its count and
// direction, which Motion's plain enum shape has no room for without
// breaking every existing Move(Motion, count) call site. They're realized
// instead as MoveFind/RepeatFind below, which take that rune directly.

// TextObjectScope is the "inner" vs. "a" half of a text object ("iw" vs "aw").
type TextObjectScope uint8

const (
	ScopeInner TextObjectScope = iota
	ScopeA
)

// TextObjectKind is the object half of a text object.
type TextObjectKind uint8

const (
	KindWord TextObjectKind = iota
	KindBigWord
	KindLine
	KindParagraph
	KindLineMark
	KindRoundBrackets
	KindSquareBrackets
	KindCurlyBrackets
	KindAngleBrackets
	KindSingleQuotes
	KindDoubleQuotes
	KindBackQuotes
)

// TextObject names one of spec §4.4's scope × object combinations.
type TextObject struct {
	Scope TextObjectScope
	Kind  TextObjectKind
}

var bracketPairs = map[TextObjectKind][2]rune{
	KindRoundBrackets:  {'(', ')'},
	KindSquareBrackets: {'[', ']'},
	KindCurlyBrackets:  {'{', '}'},
	KindAngleBrackets:  {'<', '>'},
}

var quoteRunes = map[TextObjectKind]rune{
	KindSingleQuotes: '\'',
	KindDoubleQuotes: '"',
	KindBackQuotes:   '`',
}

// Navigator drives vi-style navigation over a screen.Screen's grid. It
// owns the cursor position used for navigation purposes (separate from
// the emulator's own print cursor — entering vi mode freezes the normal
// cursor and navigates the viewport independently, matching how the
// original implementation's ViCommands overlays navigation atop a
// suspended terminal).
type Navigator struct {
	scr  *screen.Screen
	mode Mode
	pos  screen.Position

	visualAnchor screen.Position
	jumps        *JumpList

	// lastJump is the single-slot toggle target for MotionJumpToLastJumpPoint
	// (vim's `` / ''), distinct from the multi-level jumps stack: it only
	// ever remembers the one position a jump last departed from, and
	// jumping to it again toggles back, the way vim's backtick-backtick
	// does (SPEC_FULL.md §4's mark-relative-motion supplement).
	lastJump    screen.Position
	lastJumpSet bool

	// findChar/findForward/findTill remember the last f/F/t/T target so a
	// bare repeat (';'/',' at the session layer) can reapply it.
	findChar    rune
	findForward bool
	findTill    bool

	lastSearch string
}

// NewNavigator creates a Navigator bound to scr, starting in Insert mode
// (vi navigation disengaged) at the emulator's current cursor position.
func NewNavigator(scr *screen.Screen) *Navigator {
	row, col := scr.CursorPosition()
	return &Navigator{scr: scr, mode: ModeInsert, pos: screen.Position{Row: row, Col: col}, jumps: NewJumpList(256)}
}

func (n *Navigator) Mode() Mode                { return n.mode }
func (n *Navigator) Position() screen.Position { return n.pos }

// SetPosition places the cursor directly, clamped to the grid's bounds.
// Operators use this to park the cursor at the start of their target
// range once they're done with it (vim's own convention for where a yank
// leaves the cursor), rather than wherever the motion that named the
// range's end happened to land.
func (n *Navigator) SetPosition(pos screen.Position) {
	n.pos = screen.Position{
		Row: clamp(pos.Row, -n.scr.ScrollbackLen(), n.scr.Rows()-1),
		Col: clamp(pos.Col, 0, n.scr.Cols()-1),
	}
	n.updateSelection()
}

// SelectRange sets the visual anchor and cursor to start/end directly —
// how a text object applies itself while already in an active visual
// mode ("viw" selects the word text object as the visual selection).
func (n *Navigator) SelectRange(start, end screen.Position) {
	n.visualAnchor = start
	n.pos = end
	n.updateSelection()
}

// Active reports whether vi navigation is currently engaged (any mode
// other than Insert).
func (n *Navigator) Active() bool { return n.mode != ModeInsert }

// ToggleNormalMode implements the ViNormalMode action: Insert flips to
// Normal (snapshotting the print cursor as the nav position) and Normal
// flips back to Insert, matching the original's "Enters/Leaves Vi-like
// normal mode" semantics. Called from Visual/VisualLine/VisualBlock it
// leaves vi mode entirely, same as the original's Insert<->Normal toggle
// not being reachable from a visual submode without first leaving it.
func (n *Navigator) ToggleNormalMode() {
	switch n.mode {
	case ModeInsert:
		row, col := n.scr.CursorPosition()
		n.pos = screen.Position{Row: row, Col: col}
		n.mode = ModeNormal
	default:
		n.mode = ModeInsert
		n.scr.ClearSelection()
	}
}

// EnterVisual switches to the given visual mode, anchoring the selection
// at the current position. Passing ModeNormal leaves the current visual
// submode back to plain vi-Normal navigation, clearing any selection.
func (n *Navigator) EnterVisual(mode Mode) {
	if mode == ModeNormal || mode == ModeInsert {
		n.mode = mode
		n.scr.ClearSelection()
		return
	}
	n.mode = mode
	n.visualAnchor = n.pos
	n.updateSelection()
}

func (n *Navigator) updateSelection() {
	if n.mode == ModeInsert || n.mode == ModeNormal {
		return
	}
	sm := screen.SelectionLinear
	switch n.mode {
	case ModeVisualLine:
		sm = screen.SelectionFullLine
	case ModeVisualBlock:
		sm = screen.SelectionRectangular
	}
	n.scr.SetSelection(n.visualAnchor, n.pos, sm)
}

// isJumpMotion reports the motions spec §4.4 flags as "jump": they push
// the departure position onto the jump list before moving.
func isJumpMotion(m Motion) bool {
	switch m {
	case MotionWordForward, MotionWordBackward, MotionBigWordForward, MotionBigWordBackward,
		MotionFileStart, MotionFileEnd, MotionPageUp, MotionPageDown,
		MotionPageTop, MotionPageBottom, MotionPageCenter,
		MotionParagraphForward, MotionParagraphBackward,
		MotionSearchResultForward, MotionSearchResultBackward,
		MotionJumpToMarkForward, MotionJumpToMarkBackward:
		return true
	}
	return false
}

// Move applies a motion (count as described on Motion; count < 1 behaves
// as 1), clamping to the grid's bounds, and records a jump first when the motion is flagged
// as one of spec §4.4's jump motions.
func (n *Navigator) Move(m Motion, count int) {
	if count < 1 {
		count = 1
	}
	if isJumpMotion(m) {
		n.recordJump()
	}
	rows, cols := n.scr.Rows(), n.scr.Cols()
	switch m {
	case MotionLeft:
		n.pos.Col = clamp(n.pos.Col-count, 0, cols-1)
	case MotionRight:
		n.pos.Col = clamp(n.pos.Col+count, 0, cols-1)
	case MotionUp:
		n.pos.Row = clamp(n.pos.Row-count, 0, rows-1)
	case MotionDown:
		n.pos.Row = clamp(n.pos.Row+count, 0, rows-1)
	case MotionLineStart:
		n.pos.Col = 0
	case MotionLineEnd:
		n.pos.Col = cols - 1
	case MotionFirstNonBlank:
		n.pos.Col = firstNonBlankCol(n.scr, n.pos.Row)
	case MotionScreenColumn:
		n.pos.Col = clamp(count-1, 0, cols-1)
	case MotionWordForward:
		n.pos = wordForward(n.scr, n.pos, count, false)
	case MotionWordBackward:
		n.pos = wordBackward(n.scr, n.pos, count, false)
	case MotionWordEnd:
		n.pos = wordEndMotion(n.scr, n.pos, count, false)
	case MotionBigWordForward:
		n.pos = wordForward(n.scr, n.pos, count, true)
	case MotionBigWordBackward:
		n.pos = wordBackward(n.scr, n.pos, count, true)
	case MotionBigWordEnd:
		n.pos = wordEndMotion(n.scr, n.pos, count, true)
	case MotionFileStart:
		n.pos = screen.Position{Row: -n.scr.ScrollbackLen(), Col: 0}
	case MotionFileEnd:
		n.pos = screen.Position{Row: rows - 1, Col: 0}
	case MotionPageUp:
		n.pos.Row = clamp(n.pos.Row-rows, -n.scr.ScrollbackLen(), rows-1)
	case MotionPageDown:
		n.pos.Row = clamp(n.pos.Row+rows, -n.scr.ScrollbackLen(), rows-1)
	case MotionPageTop:
		n.pos.Row = 0
	case MotionPageBottom:
		n.pos.Row = rows - 1
	case MotionPageCenter, MotionCenterCursor:
		n.pos.Row = rows / 2
	case MotionParagraphForward:
		n.pos = paragraphForward(n.scr, n.pos, count)
	case MotionParagraphBackward:
		n.pos = paragraphBackward(n.scr, n.pos, count)
	case MotionParenthesisMatching:
		if p, ok := matchParenthesis(n.scr, n.pos); ok {
			n.pos = p
		}
	case MotionSearchResultForward:
		if p, ok := n.searchStep(1); ok {
			n.pos = p
		}
	case MotionSearchResultBackward:
		if p, ok := n.searchStep(-1); ok {
			n.pos = p
		}
	case MotionJumpToLastJumpPoint:
		n.toggleLastJump()
	case MotionJumpToMarkForward:
		if p, ok := n.markStep(1); ok {
			n.pos = p
		}
	case MotionJumpToMarkBackward:
		if p, ok := n.markStep(-1); ok {
			n.pos = p
		}
	}
	n.updateSelection()
}

// MoveFind implements f/F/t/T: jump to (or just before/after, when till
// is true) the count'th occurrence of r on the current line in the given
// direction, remembering it for RepeatFind.
func (n *Navigator) MoveFind(r rune, forward, till bool, count int) bool {
	n.findChar, n.findForward, n.findTill = r, forward, till
	return n.applyFind(r, forward, till, count)
}

// RepeatFind reapplies the last MoveFind target (';'). reverse flips the
// remembered direction once, as vim's ',' does.
func (n *Navigator) RepeatFind(reverse bool, count int) bool {
	if n.findChar == 0 {
		return false
	}
	forward := n.findForward
	if reverse {
		forward = !forward
	}
	return n.applyFind(n.findChar, forward, n.findTill, count)
}

func (n *Navigator) applyFind(r rune, forward, till bool, count int) bool {
	if count < 1 {
		count = 1
	}
	text := lineRunes(n.scr, n.pos.Row)
	col := n.pos.Col
	found := false
	for i := 0; i < count; i++ {
		next := -1
		if forward {
			for c := col + 1; c < len(text); c++ {
				if text[c] == r {
					next = c
					break
				}
			}
		} else {
			for c := col - 1; c >= 0; c-- {
				if text[c] == r {
					next = c
					break
				}
			}
		}
		if next < 0 {
			return found
		}
		col = next
		found = true
	}
	if till {
		if forward {
			col--
		} else {
			col++
		}
	}
	n.pos.Col = clamp(col, 0, len(text))
	n.updateSelection()
	return found
}

// SetSearch records the active search pattern for n/N (MotionSearchResult*).
func (n *Navigator) SetSearch(pattern string) { n.lastSearch = pattern }

func (n *Navigator) searchStep(dir int) (screen.Position, bool) {
	if n.lastSearch == "" {
		return screen.Position{}, false
	}
	matches := append(n.scr.SearchScrollback(n.lastSearch), n.scr.Search(n.lastSearch)...)
	if len(matches) == 0 {
		return screen.Position{}, false
	}
	if dir > 0 {
		for _, m := range matches {
			if n.pos.Before(m) {
				return m, true
			}
		}
		return matches[0], true
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].Before(n.pos) {
			return matches[i], true
		}
	}
	return matches[len(matches)-1], true
}

// markStep resolves MotionJumpToMarkForward/Backward against the screen's
// shell-integration PromptMarks, the only mark system this codebase
// actually wires a setter for (spec's raw per-Line "marked" flag has no
// setter anywhere and is not used as a jump target; see DESIGN.md).
func (n *Navigator) markStep(dir int) (screen.Position, bool) {
	abs := n.absRow()
	var row int
	if dir > 0 {
		row = n.scr.PromptMarks().Next(abs, -1)
	} else {
		row = n.scr.PromptMarks().Prev(abs, -1)
	}
	if row < 0 {
		return screen.Position{}, false
	}
	return screen.Position{Row: row - n.scr.ScrollbackLen(), Col: 0}, true
}

// absRow converts n.pos's negative-row-means-scrollback convention into
// PromptMarks' absolute-row convention (the same formula screen/handler.go
// uses when it records a mark: scrollback length + cursor row).
func (n *Navigator) absRow() int { return n.scr.ScrollbackLen() + n.pos.Row }

func (n *Navigator) recordJump() {
	n.jumps.Push(n.pos)
	n.lastJump = n.pos
	n.lastJumpSet = true
}

// toggleLastJump implements MotionJumpToLastJumpPoint (vim's ``/''):
// jumping there again returns to where the toggle was invoked from.
func (n *Navigator) toggleLastJump() {
	if !n.lastJumpSet {
		return
	}
	cur := n.pos
	n.pos = n.lastJump
	n.lastJump = cur
}

// JumpBack returns to the previous jump-list entry, or false if none remains.
func (n *Navigator) JumpBack() bool {
	pos, ok := n.jumps.Back(n.pos)
	if !ok {
		return false
	}
	n.pos = pos
	n.updateSelection()
	return true
}

// JumpForward advances to the next jump-list entry, or false if at the end.
func (n *Navigator) JumpForward() bool {
	pos, ok := n.jumps.Forward(n.pos)
	if !ok {
		return false
	}
	n.pos = pos
	n.updateSelection()
	return true
}

// SelectTextObject resolves a text object to a (start, end) range around
// n.pos, following spec §4.4: matching-pair objects walk outward counting
// depth with left/right tokens, LineMark objects expand to the marked
// region above/below the cursor, and the rest resolve from word/line/
// paragraph boundaries.
func (n *Navigator) SelectTextObject(obj TextObject) (screen.Position, screen.Position, bool) {
	switch obj.Kind {
	case KindWord:
		return wordObject(n.scr, n.pos, obj.Scope, false)
	case KindBigWord:
		return wordObject(n.scr, n.pos, obj.Scope, true)
	case KindLine:
		return lineObject(n.scr, n.pos, obj.Scope)
	case KindParagraph:
		return paragraphObject(n.scr, n.pos, obj.Scope)
	case KindLineMark:
		return n.lineMarkObject()
	case KindRoundBrackets, KindSquareBrackets, KindCurlyBrackets, KindAngleBrackets:
		pair := bracketPairs[obj.Kind]
		return bracketObject(n.scr, n.pos, obj.Scope, pair[0], pair[1])
	case KindSingleQuotes, KindDoubleQuotes, KindBackQuotes:
		return quoteObject(n.scr, n.pos, obj.Scope, quoteRunes[obj.Kind])
	}
	return screen.Position{}, screen.Position{}, false
}

// lineMarkObject expands to the region between the two PromptMarks
// bracketing the cursor's current line (spec §4.4: "LineMark objects
// expand to the marked region above/below the cursor").
func (n *Navigator) lineMarkObject() (screen.Position, screen.Position, bool) {
	abs := n.absRow()
	prev := n.scr.PromptMarks().Prev(abs+1, -1)
	next := n.scr.PromptMarks().Next(abs-1, -1)
	if prev < 0 || next < 0 {
		return screen.Position{}, screen.Position{}, false
	}
	sb := n.scr.ScrollbackLen()
	return screen.Position{Row: prev - sb, Col: 0}, screen.Position{Row: next - sb, Col: n.scr.Cols() - 1}, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func firstNonBlankCol(scr *screen.Screen, row int) int {
	for i, r := range lineRunes(scr, row) {
		if r != ' ' {
			return i
		}
	}
	return 0
}

// runeClass distinguishes the four classes spec §4.4's word-classification
// paragraph names. Keyword (the "configurable broader class") is treated
// as equivalent to Word — no config surface for it is wired (SPEC_FULL.md
// §2's config-collaborator scope doesn't name one), so the two classes
// collapse; this is recorded as an accepted simplification in DESIGN.md.
type runeClass uint8

const (
	classWhitespace runeClass = iota
	classWord
	classOther
)

func classify(r rune) runeClass {
	switch {
	case r == ' ' || r == 0 || r == '\t':
		return classWhitespace
	case isWordRune(r):
		return classWord
	default:
		return classOther
	}
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// classAt classifies the rune at (row,col), treating big==true as the
// W/B/E empty-vs-nonempty rule (spec: "W/B/E use only empty-vs-nonempty").
func classAt(scr *screen.Screen, row, col int, big bool) runeClass {
	text := lineRunes(scr, row)
	if col < 0 || col >= len(text) {
		return classWhitespace
	}
	if big {
		if text[col] == ' ' || text[col] == 0 {
			return classWhitespace
		}
		return classWord
	}
	return classify(text[col])
}

func wordForward(scr *screen.Screen, pos screen.Position, count int, big bool) screen.Position {
	for i := 0; i < count; i++ {
		pos = nextWordStart(scr, pos, big)
	}
	return pos
}

func wordBackward(scr *screen.Screen, pos screen.Position, count int, big bool) screen.Position {
	for i := 0; i < count; i++ {
		pos = prevWordStart(scr, pos, big)
	}
	return pos
}

func wordEndMotion(scr *screen.Screen, pos screen.Position, count int, big bool) screen.Position {
	for i := 0; i < count; i++ {
		pos = nextWordEnd(scr, pos, big)
	}
	return pos
}

func nextWordStart(scr *screen.Screen, pos screen.Position, big bool) screen.Position {
	rows, cols := scr.Rows(), scr.Cols()
	row, col := pos.Row, pos.Col
	startClass := classAt(scr, row, col, big)
	for {
		col++
		if col >= cols {
			row++
			col = 0
			if row >= rows {
				return screen.Position{Row: rows - 1, Col: cols - 1}
			}
			startClass = classWhitespace
		}
		cur := classAt(scr, row, col, big)
		if cur == classWhitespace {
			startClass = classWhitespace
			continue
		}
		if cur != startClass || startClass == classWhitespace {
			return screen.Position{Row: row, Col: col}
		}
	}
}

func prevWordStart(scr *screen.Screen, pos screen.Position, big bool) screen.Position {
	sbLen := scr.ScrollbackLen()
	row, col := pos.Row, pos.Col
	for {
		col--
		if col < 0 {
			row--
			if row < -sbLen {
				return screen.Position{Row: -sbLen, Col: 0}
			}
			col = len(lineRunes(scr, row)) - 1
			if col < 0 {
				continue
			}
		}
		cur := classAt(scr, row, col, big)
		if cur == classWhitespace {
			continue
		}
		prev := classAt(scr, row, col-1, big)
		if col == 0 || prev != cur {
			return screen.Position{Row: row, Col: col}
		}
	}
}

func nextWordEnd(scr *screen.Screen, pos screen.Position, big bool) screen.Position {
	rows := scr.Rows()
	row, col := pos.Row, pos.Col
	for {
		col++
		text := lineRunes(scr, row)
		if col >= len(text) {
			row++
			if row >= rows {
				return screen.Position{Row: rows - 1, Col: scr.Cols() - 1}
			}
			col = 0
			continue
		}
		cur := classAt(scr, row, col, big)
		if cur == classWhitespace {
			continue
		}
		next := classAt(scr, row, col+1, big)
		if next != cur {
			return screen.Position{Row: row, Col: col}
		}
	}
}

func lineRunes(scr *screen.Screen, row int) []rune {
	if row < 0 {
		sbLen := scr.ScrollbackLen()
		idx := sbLen + row
		return []rune(screen.LineText(scr.ScrollbackLine(idx)))
	}
	return []rune(scr.LineContent(row))
}

// wordObject resolves "iw"/"aw" or "iW"/"aW": inner is just the run of the
// class under the cursor; "a" extends over one run of trailing (or, if
// none, leading) whitespace, matching vim's aw semantics.
func wordObject(scr *screen.Screen, pos screen.Position, scope TextObjectScope, big bool) (screen.Position, screen.Position, bool) {
	text := lineRunes(scr, pos.Row)
	if pos.Col >= len(text) {
		return pos, pos, false
	}
	cls := classAt(scr, pos.Row, pos.Col, big)
	start, end := pos.Col, pos.Col
	for start > 0 && classAt(scr, pos.Row, start-1, big) == cls {
		start--
	}
	for end+1 < len(text) && classAt(scr, pos.Row, end+1, big) == cls {
		end++
	}
	if scope == ScopeA {
		trailing := end
		for trailing+1 < len(text) && classAt(scr, pos.Row, trailing+1, big) == classWhitespace {
			trailing++
		}
		if trailing > end {
			end = trailing
		} else {
			for start > 0 && classAt(scr, pos.Row, start-1, big) == classWhitespace {
				start--
			}
		}
	}
	return screen.Position{Row: pos.Row, Col: start}, screen.Position{Row: pos.Row, Col: end}, true
}

// lineObject resolves "il"/"al": inner is the line's text excluding
// leading/trailing blanks, "a" is the whole physical line.
func lineObject(scr *screen.Screen, pos screen.Position, scope TextObjectScope) (screen.Position, screen.Position, bool) {
	cols := scr.Cols()
	if scope == ScopeA {
		return screen.Position{Row: pos.Row, Col: 0}, screen.Position{Row: pos.Row, Col: cols - 1}, true
	}
	text := lineRunes(scr, pos.Row)
	start := 0
	for start < len(text) && text[start] == ' ' {
		start++
	}
	end := len(text) - 1
	for end > start && text[end] == ' ' {
		end--
	}
	if end < start {
		end = start
	}
	return screen.Position{Row: pos.Row, Col: start}, screen.Position{Row: pos.Row, Col: end}, true
}

// paragraphForward/Backward walk to the next/previous blank line, spec's
// ParagraphForward/Backward motions.
func paragraphForward(scr *screen.Screen, pos screen.Position, count int) screen.Position {
	row := pos.Row
	rows := scr.Rows()
	for i := 0; i < count; i++ {
		for row < rows-1 && len(lineRunes(scr, row)) > 0 {
			row++
		}
		for row < rows-1 && len(lineRunes(scr, row)) == 0 {
			row++
		}
	}
	return screen.Position{Row: clamp(row, 0, rows-1), Col: 0}
}

func paragraphBackward(scr *screen.Screen, pos screen.Position, count int) screen.Position {
	row := pos.Row
	sbLen := scr.ScrollbackLen()
	for i := 0; i < count; i++ {
		for row > -sbLen && len(lineRunes(scr, row)) > 0 {
			row--
		}
		for row > -sbLen && len(lineRunes(scr, row)) == 0 {
			row--
		}
	}
	return screen.Position{Row: clamp(row, -sbLen, scr.Rows()-1), Col: 0}
}

// paragraphObject resolves "ip"/"ap": the run of non-blank lines around
// the cursor, "a" additionally swallowing one trailing (or leading) run
// of blank lines.
func paragraphObject(scr *screen.Screen, pos screen.Position, scope TextObjectScope) (screen.Position, screen.Position, bool) {
	rows := scr.Rows()
	sbLen := scr.ScrollbackLen()
	start, end := pos.Row, pos.Row
	blank := func(row int) bool { return len(lineRunes(scr, row)) == 0 }
	for start > -sbLen && !blank(start-1) {
		start--
	}
	for end < rows-1 && !blank(end+1) {
		end++
	}
	if scope == ScopeA {
		trailing := end
		for trailing+1 < rows && blank(trailing+1) {
			trailing++
		}
		if trailing > end {
			end = trailing
		} else {
			for start > -sbLen && blank(start-1) {
				start--
			}
		}
	}
	return screen.Position{Row: start, Col: 0}, screen.Position{Row: end, Col: scr.Cols() - 1}, true
}

// bracketObject resolves matching-pair text objects ("i(" / "a{" etc): it
// walks outward from pos counting nesting depth with open/close tokens,
// per spec §4.4's "Matching-pair objects walk outward counting depth with
// left/right tokens".
func bracketObject(scr *screen.Screen, pos screen.Position, scope TextObjectScope, open, close rune) (screen.Position, screen.Position, bool) {
	openPos, ok := enclosingOpen(scr, pos, open, close)
	if !ok {
		return screen.Position{}, screen.Position{}, false
	}
	closePos, ok := scanForwardForMatch(scr, openPos, open, close)
	if !ok {
		return screen.Position{}, screen.Position{}, false
	}
	if scope == ScopeA {
		return openPos, closePos, true
	}
	inStart, ok1 := stepForward(scr, openPos.Row, openPos.Col)
	inEnd, ok2 := stepBackward(scr, closePos.Row, closePos.Col)
	if !ok1 || !ok2 || inEnd.Before(inStart) {
		return openPos, openPos, true // empty pair, e.g. "()"
	}
	return inStart, inEnd, true
}

// enclosingOpen backward-scans for the nearest unmatched open bracket
// enclosing pos, counting close/open tokens seen along the way. If pos
// itself sits on an open bracket, that is the direct hit.
func enclosingOpen(scr *screen.Screen, pos screen.Position, open, close rune) (screen.Position, bool) {
	if r := runeAt(scr, pos.Row, pos.Col); r == open {
		return pos, true
	}
	depth := 0
	row, col := pos.Row, pos.Col
	for {
		r := runeAt(scr, row, col)
		if r == close {
			depth++
		} else if r == open {
			if depth == 0 {
				return screen.Position{Row: row, Col: col}, true
			}
			depth--
		}
		var ok bool
		row, col, ok = stepBackCoord(scr, row, col)
		if !ok {
			return screen.Position{}, false
		}
	}
}

// scanForwardForMatch scans forward from an open-bracket position,
// counting nested pairs, to find the matching close bracket.
func scanForwardForMatch(scr *screen.Screen, openPos screen.Position, open, close rune) (screen.Position, bool) {
	depth := 0
	row, col := openPos.Row, openPos.Col
	for {
		r := runeAt(scr, row, col)
		if r == open {
			depth++
		} else if r == close {
			depth--
			if depth == 0 {
				return screen.Position{Row: row, Col: col}, true
			}
		}
		var ok bool
		row, col, ok = stepForwardCoord(scr, row, col)
		if !ok {
			return screen.Position{}, false
		}
	}
}

// matchParenthesis implements MotionParenthesisMatching ("%"): from the
// bracket under the cursor (any of the three pair kinds), jump to its
// match; if the cursor isn't on a bracket, scan forward on the line for
// the first one.
func matchParenthesis(scr *screen.Screen, pos screen.Position) (screen.Position, bool) {
	pairs := [][2]rune{{'(', ')'}, {'[', ']'}, {'{', '}'}}
	row, col := pos.Row, pos.Col
	text := lineRunes(scr, row)
	if col >= len(text) {
		return screen.Position{}, false
	}
	r := text[col]
	for _, p := range pairs {
		if r == p[0] {
			return scanForwardForMatch(scr, pos, p[0], p[1])
		}
		if r == p[1] {
			return enclosingOpen(scr, pos, p[0], p[1])
		}
	}
	for c := col; c < len(text); c++ {
		for _, p := range pairs {
			if text[c] == p[0] {
				return scanForwardForMatch(scr, screen.Position{Row: row, Col: c}, p[0], p[1])
			}
			if text[c] == p[1] {
				return enclosingOpen(scr, screen.Position{Row: row, Col: c}, p[0], p[1])
			}
		}
	}
	return screen.Position{}, false
}

// quoteObject resolves "i'"/"a\"" etc: quote pairs are resolved within a
// single physical line only (vim's own behavior for these text objects).
func quoteObject(scr *screen.Screen, pos screen.Position, scope TextObjectScope, q rune) (screen.Position, screen.Position, bool) {
	text := lineRunes(scr, pos.Row)
	var openCol, closeCol = -1, -1
	count := 0
	for c, r := range text {
		if r != q {
			continue
		}
		if count%2 == 0 {
			if c <= pos.Col {
				openCol = c
			}
		} else if openCol >= 0 && openCol <= pos.Col && c >= pos.Col {
			closeCol = c
			break
		} else if openCol >= 0 {
			openCol = -1
		}
		count++
	}
	if openCol < 0 || closeCol < 0 {
		return screen.Position{}, screen.Position{}, false
	}
	if scope == ScopeA {
		return screen.Position{Row: pos.Row, Col: openCol}, screen.Position{Row: pos.Row, Col: closeCol}, true
	}
	if closeCol-openCol <= 1 {
		return screen.Position{Row: pos.Row, Col: openCol}, screen.Position{Row: pos.Row, Col: openCol}, true
	}
	return screen.Position{Row: pos.Row, Col: openCol + 1}, screen.Position{Row: pos.Row, Col: closeCol - 1}, true
}

func runeAt(scr *screen.Screen, row, col int) rune {
	text := lineRunes(scr, row)
	if col < 0 || col >= len(text) {
		return 0
	}
	return text[col]
}

func stepForwardCoord(scr *screen.Screen, row, col int) (int, int, bool) {
	col++
	if col >= scr.Cols() {
		row++
		col = 0
		if row >= scr.Rows() {
			return 0, 0, false
		}
	}
	return row, col, true
}

func stepBackCoord(scr *screen.Screen, row, col int) (int, int, bool) {
	col--
	if col < 0 {
		row--
		if row < -scr.ScrollbackLen() {
			return 0, 0, false
		}
		col = scr.Cols() - 1
	}
	return row, col, true
}

func stepForward(scr *screen.Screen, row, col int) (screen.Position, bool) {
	r, c, ok := stepForwardCoord(scr, row, col)
	return screen.Position{Row: r, Col: c}, ok
}

func stepBackward(scr *screen.Screen, row, col int) (screen.Position, bool) {
	r, c, ok := stepBackCoord(scr, row, col)
	return screen.Position{Row: r, Col: c}, ok
}
