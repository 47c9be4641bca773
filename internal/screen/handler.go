package screen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgterm/vtcore/internal/vtparse"
)

// Screen implements vtparse.Dispatcher: every VT event the parser produces
// lands on one of these methods. The method catalogue and the
// middleware-hook dispatch shape (call the hook if set, otherwise run the
// *Internal default) are grounded on _examples/danielgatis-go-headless-term/handler.go's
// ansicode.Handler implementation, retargeted at vtparse.Dispatcher.
var _ vtparse.Dispatcher = (*Screen)(nil)

func (s *Screen) Print(r rune) {
	if s.Middleware != nil && s.Middleware.Print != nil {
		s.Middleware.Print(r, s.printInternal)
		return
	}
	s.printInternal(r)
}

func (s *Screen) printInternal(r rune) {
	w := RuneWidth(r)
	if w <= 0 {
		w = 1
	}
	cur := &s.active.Cursor
	grid := s.active.Grid

	if cur.Pending {
		cur.Col = 0
		s.lineFeed(true)
		cur.Pending = false
	}
	if s.Modes.Has(ModeInsert) {
		s.insertCells(w)
	}

	cell := grid.Cell(cur.Row, cur.Col)
	if cell == nil {
		return
	}
	*cell = Cell{Char: r, Width: uint8(w), Flags: cur.Template.Flags, Fg: cur.Template.Fg, Bg: cur.Template.Bg, UnderlineFg: cur.Template.UnderlineFg, Hyperlink: cur.Template.activeHyperlink}
	grid.markDirty(cur.Row)
	if w == 2 {
		if sp := grid.Cell(cur.Row, cur.Col+1); sp != nil {
			*sp = Cell{Char: 0, Width: 0, Flags: FlagWideSpacer}
		}
	}

	next := cur.Col + w
	if next >= grid.Cols() {
		if s.Modes.Has(ModeLineWrap) {
			cur.Col = grid.Cols() - 1
			cur.Pending = true
		} else {
			cur.Col = grid.Cols() - 1
		}
	} else {
		cur.Col = next
	}
}

func (s *Screen) insertCells(n int) {
	grid := s.active.Grid
	cur := &s.active.Cursor
	line := grid.Line(cur.Row)
	if line == nil {
		return
	}
	right := grid.ScrollRight
	if right >= len(line.Cells) {
		right = len(line.Cells) - 1
	}
	for c := right; c >= cur.Col+n; c-- {
		line.Cells[c] = line.Cells[c-n]
	}
	for c := cur.Col; c < cur.Col+n && c <= right; c++ {
		line.Cells[c] = Cell{Char: ' ', Width: 1}
	}
	grid.markDirty(cur.Row)
}

func (s *Screen) Execute(b byte) {
	switch b {
	case '\b':
		s.moveCursor(0, -1, false)
	case '\t':
		s.tab(1)
	case '\n', '\v', '\f':
		s.lineFeed(false)
	case '\r':
		s.active.Cursor.Col = 0
		s.active.Cursor.Pending = false
	case 0x07:
		if s.Middleware != nil && s.Middleware.Bell != nil {
			s.Middleware.Bell(s.Bell.Bell)
			return
		}
		s.Bell.Bell()
	case 0x0e: // SO
		s.active.Cursor.ShiftedOut = true
	case 0x0f: // SI
		s.active.Cursor.ShiftedOut = false
	}
}

func (s *Screen) lineFeed(fromWrap bool) {
	cur := &s.active.Cursor
	grid := s.active.Grid
	line := grid.Line(cur.Row)
	if fromWrap && line != nil {
		line.Wrapped = true
	}
	if cur.Row == grid.ScrollBottom {
		grid.ScrollUp(1, s.blankTemplate())
	} else if cur.Row < grid.Rows()-1 {
		cur.Row++
	}
	if !fromWrap {
		// LF in LNM-unset mode does not also return the carriage; we match
		// common emulator behavior of treating bare LF as line-feed-only.
	}
}

func (s *Screen) tab(n int) {
	grid := s.active.Grid
	cur := &s.active.Cursor
	for i := 0; i < n; i++ {
		next := cur.Col + 1
		for next < grid.Cols()-1 && !grid.IsTabStop(next) {
			next++
		}
		cur.Col = next
	}
	if cur.Col >= grid.Cols() {
		cur.Col = grid.Cols() - 1
	}
}

func (s *Screen) blankTemplate() Cell {
	return Cell{Char: ' ', Width: 1, Fg: s.active.Cursor.Template.Fg, Bg: s.active.Cursor.Template.Bg}
}

func (s *Screen) moveCursor(dr, dc int, toMargins bool) {
	cur := &s.active.Cursor
	grid := s.active.Grid
	cur.Row += dr
	cur.Col += dc
	cur.Pending = false
	minRow, maxRow := 0, grid.Rows()-1
	if toMargins || s.Modes.Has(ModeOriginMode) {
		minRow, maxRow = grid.ScrollTop, grid.ScrollBottom
	}
	if cur.Row < minRow {
		cur.Row = minRow
	}
	if cur.Row > maxRow {
		cur.Row = maxRow
	}
	if cur.Col < 0 {
		cur.Col = 0
	}
	if cur.Col >= grid.Cols() {
		cur.Col = grid.Cols() - 1
	}
}

func p(params [][]int, i, def int) int {
	if i >= len(params) || len(params[i]) == 0 {
		return def
	}
	v := params[i][0]
	if v == 0 {
		return def
	}
	return v
}

func (s *Screen) CSI(params [][]int, intermediates []byte, private byte, final byte) {
	switch {
	case private == '?' && final == 'h':
		s.setDecModes(params, true)
	case private == '?' && final == 'l':
		s.setDecModes(params, false)
	case private == 0 && final == 'h':
		s.setAnsiModes(params, true)
	case private == 0 && final == 'l':
		s.setAnsiModes(params, false)
	case private == '?' && final == 'p' && hasIntermediate(intermediates, '$'):
		s.reportDECRPM(params)
	default:
		s.dispatchCSI(params, intermediates, private, final)
	}
}

func hasIntermediate(intermediates []byte, b byte) bool {
	for _, x := range intermediates {
		if x == b {
			return true
		}
	}
	return false
}

// reportDECRPM answers a DECRQM query (CSI ? Pd $ p) with a DECRPM reply
// (CSI ? Pd ; Ps $ y), Ps per spec §6.2's ModeReportValue (not-recognized/
// set/reset/permanently-set/permanently-reset).
func (s *Screen) reportDECRPM(params [][]int) {
	num := p(params, 0, 0)
	mode, recognized := decModeFor(num)
	val := s.Modes.Report(mode, recognized)
	s.reply(fmt.Sprintf("\x1b[?%d;%d$y", num, val))
}

// decModeFor maps a DEC private mode number to this engine's Mode bit,
// mirroring setDecModes' switch so DECRQM answers the same modes DECSET/
// DECRST accept.
func decModeFor(num int) (Mode, bool) {
	switch num {
	case 1:
		return ModeAppCursorKeys, true
	case 3:
		return ModeDECCOLM132, true
	case 5:
		return ModeReverseVideo, true
	case 6:
		return ModeOriginMode, true
	case 7:
		return ModeLineWrap, true
	case 8:
		return ModeAutoRepeat, true
	case 9:
		return ModeMouseX10, true
	case 25:
		return ModeShowCursor, true
	case 66:
		return ModeAppKeypad, true
	case 1000:
		return ModeMouseButtonEvent, true
	case 1002:
		return ModeMouseAnyEvent, true
	case 1004:
		return ModeFocusEvents, true
	case 1005:
		return ModeMouseUTF8, true
	case 1006:
		return ModeMouseSGR, true
	case 1049:
		return ModeAlternateScreen, true
	case 2004:
		return ModeBracketedPaste, true
	default:
		return 0, false
	}
}

func (s *Screen) dispatchCSI(params [][]int, intermediates []byte, private byte, final byte) {
	grid := s.active.Grid
	switch final {
	case 'A':
		s.moveCursor(-p(params, 0, 1), 0, false)
	case 'B':
		s.moveCursor(p(params, 0, 1), 0, false)
	case 'C':
		s.moveCursor(0, p(params, 0, 1), false)
	case 'D':
		s.moveCursor(0, -p(params, 0, 1), false)
	case 'E': // CNL
		s.active.Cursor.Col = 0
		s.moveCursor(p(params, 0, 1), 0, false)
	case 'F': // CPL
		s.active.Cursor.Col = 0
		s.moveCursor(-p(params, 0, 1), 0, false)
	case 'G': // CHA
		s.active.Cursor.Col = clamp(p(params, 0, 1)-1, 0, grid.Cols()-1)
	case 'H', 'f': // CUP / HVP
		row := p(params, 0, 1) - 1
		col := p(params, 1, 1) - 1
		if s.Modes.Has(ModeOriginMode) {
			row += grid.ScrollTop
		}
		s.active.Cursor.Row = clamp(row, 0, grid.Rows()-1)
		s.active.Cursor.Col = clamp(col, 0, grid.Cols()-1)
		s.active.Cursor.Pending = false
	case 'J':
		s.eraseDisplay(p(params, 0, 0))
	case 'K':
		s.eraseLine(p(params, 0, 0))
	case 'L': // IL
		s.insertLines(p(params, 0, 1))
	case 'M': // DL
		s.deleteLines(p(params, 0, 1))
	case 'P': // DCH
		s.deleteChars(p(params, 0, 1))
	case '@': // ICH
		s.insertCells(p(params, 0, 1))
	case 'X': // ECH
		s.eraseChars(p(params, 0, 1))
	case 'S': // SU
		grid.ScrollUp(p(params, 0, 1), s.blankTemplate())
	case 'T': // SD
		grid.ScrollDown(p(params, 0, 1), s.blankTemplate())
	case 'd': // VPA
		s.active.Cursor.Row = clamp(p(params, 0, 1)-1, 0, grid.Rows()-1)
	case 'r': // DECSTBM
		top := p(params, 0, 1) - 1
		bot := p(params, 1, grid.Rows()) - 1
		if top < 0 {
			top = 0
		}
		if bot >= grid.Rows() {
			bot = grid.Rows() - 1
		}
		if top < bot {
			grid.ScrollTop, grid.ScrollBottom = top, bot
		}
		s.active.Cursor.Row, s.active.Cursor.Col = 0, 0
	case 's': // DECSLRM, applied whether or not left/right margin mode is set; CSI s never saves the cursor
		if private == 0 {
			left := p(params, 0, 1) - 1
			right := p(params, 1, grid.Cols()) - 1
			if left >= 0 && right < grid.Cols() && left < right {
				grid.ScrollLeft, grid.ScrollRight = left, right
			}
		}
	case 'm':
		s.applySGR(params)
	case 'n':
		s.deviceStatusReport(p(params, 0, 0), private)
	case 'g': // TBC
		switch p(params, 0, 0) {
		case 0:
			grid.SetTabStop(s.active.Cursor.Col, false)
		case 3:
			grid.ClearAllTabStops()
		}
	case 'q':
		if len(intermediates) > 0 && intermediates[0] == ' ' {
			s.setCursorStyle(p(params, 0, 1))
		}
	case 't':
		s.windowManip(params)
	case 'c':
		s.deviceAttributes(private)
	}
}

// deviceAttributes answers DA1 (plain), DA2 (">"), DA3 ("=") requests, the
// response shapes spec §6.1 and §6.2 name verbatim.
func (s *Screen) deviceAttributes(private byte) {
	switch private {
	case 0:
		s.reply("\x1b[?65;1;9c") // DA1: VT525-class, supports 132 columns + national replacement charsets
	case '>':
		s.reply("\x1b[>0;100;0c") // DA2: terminal id 0, firmware 100, no hardware options
	case '=':
		s.reply("\x1bP!|00000000\x1b\\") // DA3: DECRPTUI with a nil unit ID
	}
}

// reply writes a guest-directed sequence via the session-supplied
// response writer, a no-op when none is configured (e.g. in tests that
// don't care about wire replies).
func (s *Screen) reply(seq string) {
	if s.respond != nil {
		s.respond([]byte(seq))
	}
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

func (s *Screen) eraseDisplay(mode int) {
	grid := s.active.Grid
	cur := s.active.Cursor
	tmpl := s.blankTemplate()
	switch mode {
	case 0:
		s.eraseLineRange(cur.Row, cur.Col, grid.Cols()-1, tmpl)
		for r := cur.Row + 1; r < grid.Rows(); r++ {
			s.eraseLineRange(r, 0, grid.Cols()-1, tmpl)
		}
	case 1:
		for r := 0; r < cur.Row; r++ {
			s.eraseLineRange(r, 0, grid.Cols()-1, tmpl)
		}
		s.eraseLineRange(cur.Row, 0, cur.Col, tmpl)
	case 2:
		grid.Clear(tmpl)
	case 3:
		grid.Clear(tmpl)
		grid.ClearScrollback()
	}
}

func (s *Screen) eraseLine(mode int) {
	grid := s.active.Grid
	cur := s.active.Cursor
	tmpl := s.blankTemplate()
	switch mode {
	case 0:
		s.eraseLineRange(cur.Row, cur.Col, grid.Cols()-1, tmpl)
	case 1:
		s.eraseLineRange(cur.Row, 0, cur.Col, tmpl)
	case 2:
		s.eraseLineRange(cur.Row, 0, grid.Cols()-1, tmpl)
	}
}

func (s *Screen) eraseLineRange(row, from, to int, tmpl Cell) {
	line := s.active.Grid.Line(row)
	if line == nil {
		return
	}
	if to >= len(line.Cells) {
		to = len(line.Cells) - 1
	}
	for c := from; c <= to; c++ {
		line.Cells[c] = tmpl
	}
	s.active.Grid.markDirty(row)
}

func (s *Screen) eraseChars(n int) {
	cur := s.active.Cursor
	s.eraseLineRange(cur.Row, cur.Col, cur.Col+n-1, s.blankTemplate())
}

func (s *Screen) insertLines(n int) {
	grid := s.active.Grid
	cur := s.active.Cursor
	if cur.Row < grid.ScrollTop || cur.Row > grid.ScrollBottom {
		return
	}
	savedTop := grid.ScrollTop
	grid.ScrollTop = cur.Row
	grid.ScrollDown(n, s.blankTemplate())
	grid.ScrollTop = savedTop
}

func (s *Screen) deleteLines(n int) {
	grid := s.active.Grid
	cur := s.active.Cursor
	if cur.Row < grid.ScrollTop || cur.Row > grid.ScrollBottom {
		return
	}
	savedTop := grid.ScrollTop
	grid.ScrollTop = cur.Row
	grid.ScrollUp(n, s.blankTemplate())
	grid.ScrollTop = savedTop
}

func (s *Screen) deleteChars(n int) {
	grid := s.active.Grid
	cur := s.active.Cursor
	line := grid.Line(cur.Row)
	if line == nil {
		return
	}
	right := grid.ScrollRight
	if right >= len(line.Cells) {
		right = len(line.Cells) - 1
	}
	for c := cur.Col; c+n <= right; c++ {
		line.Cells[c] = line.Cells[c+n]
	}
	for c := right - n + 1; c <= right; c++ {
		if c >= cur.Col {
			line.Cells[c] = Cell{Char: ' ', Width: 1}
		}
	}
	grid.markDirty(cur.Row)
}

func (s *Screen) setCursorStyle(n int) {
	switch n {
	case 0, 1, 2:
		s.active.Cursor.Style = CursorBlock
	case 3, 4:
		s.active.Cursor.Style = CursorUnderline
	case 5, 6:
		s.active.Cursor.Style = CursorBar
	}
}

// deviceStatusReport answers DSR (n==5: device status, n==6: CPR, ?6:
// DECXCPR extended CPR with a trailing page number) per spec §6.1.
func (s *Screen) deviceStatusReport(n int, private byte) {
	switch n {
	case 5:
		s.reply("\x1b[0n")
	case 6:
		row := s.active.Cursor.Row + 1
		col := s.active.Cursor.Col + 1
		if s.Modes.Has(ModeOriginMode) {
			row -= s.active.Grid.ScrollTop
		}
		if private == '?' {
			s.reply(fmt.Sprintf("\x1b[?%d;%d;1R", row, col))
		} else {
			s.reply(fmt.Sprintf("\x1b[%d;%dR", row, col))
		}
	}
}

func (s *Screen) setAnsiModes(params [][]int, on bool) {
	for _, group := range params {
		if len(group) == 0 {
			continue
		}
		switch group[0] {
		case 4:
			s.Modes.Set(ModeInsert, on)
		case 20:
			s.Modes.Set(ModeSendRecv, on)
		}
	}
}

func (s *Screen) setDecModes(params [][]int, on bool) {
	for _, group := range params {
		if len(group) == 0 {
			continue
		}
		switch group[0] {
		case 1:
			s.Modes.Set(ModeAppCursorKeys, on)
		case 3:
			s.Modes.Set(ModeDECCOLM132, on)
			cols := 80
			if on {
				cols = 132
			}
			s.Resize(s.Rows(), cols, false)
		case 5:
			s.Modes.Set(ModeReverseVideo, on)
		case 6:
			s.Modes.Set(ModeOriginMode, on)
		case 7:
			s.Modes.Set(ModeLineWrap, on)
		case 8:
			s.Modes.Set(ModeAutoRepeat, on)
		case 9:
			s.Modes.Set(ModeMouseX10, on)
		case 25:
			s.Modes.Set(ModeShowCursor, on)
			s.active.Cursor.Visible = on
		case 66:
			s.Modes.Set(ModeAppKeypad, on)
		case 1000:
			s.Modes.Set(ModeMouseButtonEvent, on)
		case 1002:
			s.Modes.Set(ModeMouseAnyEvent, on)
		case 1004:
			s.Modes.Set(ModeFocusEvents, on)
		case 1005:
			s.Modes.Set(ModeMouseUTF8, on)
		case 1006:
			s.Modes.Set(ModeMouseSGR, on)
		case 1049:
			s.setAlternateScreen(on)
		case 2004:
			s.Modes.Set(ModeBracketedPaste, on)
		}
	}
}

func (s *Screen) setAlternateScreen(on bool) {
	if on == s.onAlt {
		return
	}
	if on {
		s.alternate.Grid.Clear(s.blankTemplate())
		s.alternate.Cursor = s.active.Cursor
		s.active = s.alternate
		s.onAlt = true
	} else {
		s.active = s.primary
		s.onAlt = false
	}
	s.Modes.Set(ModeAlternateScreen, on)
}

// windowManip implements the CSI t window-manipulation family spec §6.1
// bundles as "WINMANIP" (SPEC_FULL.md §4): save/restore title, and report
// text-area size in characters and pixels. Resize-by-pixels/resize-by-
// chars (Ps 4/8) are no-ops here — this engine has no pixel geometry of
// its own, a UI-layer concern (spec's renderer non-goal).
func (s *Screen) windowManip(params [][]int) {
	if len(params) == 0 {
		return
	}
	grid := s.active.Grid
	switch p(params, 0, 0) {
	case 14: // report text area size in pixels; no cell-pixel geometry here
		s.reply("\x1b[4;0;0t")
	case 18: // report text area size in characters
		s.reply(fmt.Sprintf("\x1b[8;%d;%dt", grid.Rows(), grid.Cols()))
	case 19: // report screen size in characters
		s.reply(fmt.Sprintf("\x1b[9;%d;%dt", grid.Rows(), grid.Cols()))
	case 21: // report window title
		s.reply(fmt.Sprintf("\x1b]l%s\x1b\\", s.title))
	case 22: // push title (icon/window distinction not modeled, one title slot)
		s.titleStack = append(s.titleStack, s.title)
	case 23: // pop title
		if n := len(s.titleStack); n > 0 {
			s.title = s.titleStack[n-1]
			s.titleStack = s.titleStack[:n-1]
			s.Title.SetTitle(TitleBoth, s.title)
		}
	}
}

func (s *Screen) Escape(intermediates []byte, final byte) {
	switch {
	case final == '7':
		saved := s.active.Cursor
		s.active.Saved = &SavedCursor{Cursor: saved, OriginMode: s.Modes.Has(ModeOriginMode)}
	case final == '8':
		if s.active.Saved != nil {
			s.active.Cursor = s.active.Saved.Cursor
			s.Modes.Set(ModeOriginMode, s.active.Saved.OriginMode)
		}
	case final == 'c': // RIS
		s.reset()
	case final == 'D': // IND
		s.lineFeed(false)
	case final == 'M': // RI
		s.reverseIndex()
	case final == 'E': // NEL
		s.active.Cursor.Col = 0
		s.lineFeed(false)
	case final == 'H': // HTS
		s.active.Grid.SetTabStop(s.active.Cursor.Col, true)
	case len(intermediates) > 0 && (intermediates[0] == '(' || intermediates[0] == ')'):
		s.designateCharset(intermediates[0], final)
	}
}

func (s *Screen) reverseIndex() {
	grid := s.active.Grid
	cur := &s.active.Cursor
	if cur.Row == grid.ScrollTop {
		grid.ScrollDown(1, s.blankTemplate())
	} else if cur.Row > 0 {
		cur.Row--
	}
}

func (s *Screen) designateCharset(slot byte, final byte) {
	idx := G0
	if slot == ')' {
		idx = G1
	}
	cs := CharsetASCII
	switch final {
	case '0':
		cs = CharsetDECGraphics
	case 'A':
		cs = CharsetUK
	}
	s.active.Cursor.Charsets[idx] = cs
}

func (s *Screen) reset() {
	rows, cols := s.Rows(), s.Cols()
	sbCap := s.primary.Grid.scrollback.cap
	s.primary = newScreenState(rows, cols, sbCap)
	s.alternate = newScreenState(rows, cols, 0)
	s.active = s.primary
	s.onAlt = false
	s.Modes = ModeSet{}
	s.Modes.Set(ModeLineWrap, true)
	s.Modes.Set(ModeShowCursor, true)
	s.Modes.Set(ModeAutoRepeat, true)
	s.selection = Selection{}
}

func (s *Screen) applySGR(params [][]int) {
	if s.Middleware != nil && s.Middleware.SGR != nil {
		flat := flattenParams(params)
		s.Middleware.SGR(flat, func(p []int) { s.applySGRFlat(p) })
		return
	}
	s.applySGRFlat(flattenParams(params))
}

func flattenParams(params [][]int) []int {
	out := make([]int, 0, len(params))
	for _, g := range params {
		if len(g) == 0 {
			out = append(out, 0)
		} else {
			out = append(out, g[0])
		}
	}
	return out
}

func (s *Screen) applySGRFlat(params []int) {
	tmpl := &s.active.Cursor.Template
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		n := params[i]
		switch {
		case n == 0:
			link := tmpl.activeHyperlink
			*tmpl = CellTemplate{activeHyperlink: link}
		case n == 1:
			tmpl.Flags |= FlagBold
		case n == 2:
			tmpl.Flags |= FlagFaint
		case n == 3:
			tmpl.Flags |= FlagItalic
		case n == 4:
			tmpl.Flags |= FlagUnderline
		case n == 5:
			tmpl.Flags |= FlagBlinkSlow
		case n == 6:
			tmpl.Flags |= FlagBlinkFast
		case n == 7:
			tmpl.Flags |= FlagInverse
		case n == 8:
			tmpl.Flags |= FlagHidden
		case n == 9:
			tmpl.Flags |= FlagStrikethrough
		case n == 21:
			tmpl.Flags |= FlagDoubleUnderline
		case n == 22:
			tmpl.Flags &^= FlagBold | FlagFaint
		case n == 23:
			tmpl.Flags &^= FlagItalic
		case n == 24:
			tmpl.Flags &^= FlagUnderline | FlagDoubleUnderline | FlagCurlyUnderline | FlagDottedUnderline | FlagDashedUnderline
		case n == 25:
			tmpl.Flags &^= FlagBlinkSlow | FlagBlinkFast
		case n == 27:
			tmpl.Flags &^= FlagInverse
		case n == 28:
			tmpl.Flags &^= FlagHidden
		case n == 29:
			tmpl.Flags &^= FlagStrikethrough
		case n == 53:
			tmpl.Flags |= FlagOverline
		case n == 55:
			tmpl.Flags &^= FlagOverline
		case n >= 30 && n <= 37:
			tmpl.Fg = NamedColor(uint8(n - 30))
		case n == 38:
			c, consumed := parseExtendedColor(params[i+1:])
			tmpl.Fg = c
			i += consumed
		case n == 39:
			tmpl.Fg = Color{}
		case n >= 40 && n <= 47:
			tmpl.Bg = NamedColor(uint8(n - 40))
		case n == 48:
			c, consumed := parseExtendedColor(params[i+1:])
			tmpl.Bg = c
			i += consumed
		case n == 49:
			tmpl.Bg = Color{}
		case n == 58:
			c, consumed := parseExtendedColor(params[i+1:])
			tmpl.UnderlineFg = c
			i += consumed
		case n == 59:
			tmpl.UnderlineFg = Color{}
		case n >= 90 && n <= 97:
			tmpl.Fg = NamedColor(uint8(n - 90 + 8))
		case n >= 100 && n <= 107:
			tmpl.Bg = NamedColor(uint8(n - 100 + 8))
		}
	}
}

// parseExtendedColor reads the "5;idx" or "2;r;g;b" tail of SGR 38/48/58,
// returning the color and how many extra params it consumed.
func parseExtendedColor(rest []int) (Color, int) {
	if len(rest) == 0 {
		return Color{}, 0
	}
	switch rest[0] {
	case 5:
		if len(rest) >= 2 {
			return IndexedColor(uint8(rest[1])), 2
		}
	case 2:
		if len(rest) >= 4 {
			return RGBColor(uint8(rest[1]), uint8(rest[2]), uint8(rest[3])), 4
		}
	}
	return Color{}, len(rest)
}

func (s *Screen) OSC(fields [][]byte) {
	if len(fields) == 0 {
		return
	}
	switch string(fields[0]) {
	case "0":
		s.title = joinField(fields, 1)
		s.Title.SetTitle(TitleBoth, s.title)
	case "1":
		s.title = joinField(fields, 1)
		s.Title.SetTitle(TitleIcon, s.title)
	case "2":
		s.title = joinField(fields, 1)
		s.Title.SetTitle(TitleWindow, s.title)
	case "7":
		s.SetWorkingDirectory(joinField(fields, 1))
	case "8":
		s.handleHyperlink(fields)
	case "9":
		s.Notify.Notify("", joinField(fields, 1))
	case "52":
		s.handleClipboard(fields)
	case "133":
		s.handleShellIntegration(fields)
	case "777":
		s.Notify.Notify(string(fieldAt(fields, 2)), string(fieldAt(fields, 3)))
	default:
		s.errorSink.ReportParseError("osc", "unsupported OSC "+string(fields[0]))
	}
}

func joinField(fields [][]byte, from int) string {
	if from >= len(fields) {
		return ""
	}
	parts := make([]string, 0, len(fields)-from)
	for _, f := range fields[from:] {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ";")
}

func fieldAt(fields [][]byte, i int) []byte {
	if i >= len(fields) {
		return nil
	}
	return fields[i]
}

func (s *Screen) handleHyperlink(fields [][]byte) {
	id := ""
	for _, part := range strings.Split(string(fieldAt(fields, 1)), ":") {
		if strings.HasPrefix(part, "id=") {
			id = part[3:]
		}
	}
	uri := string(fieldAt(fields, 2))
	cur := &s.active.Cursor
	if uri == "" {
		cur.Template.activeHyperlink = nil
		return
	}
	cur.Template.activeHyperlink = &Hyperlink{URI: uri, ID: id}
}

func (s *Screen) handleClipboard(fields [][]byte) {
	selection := string(fieldAt(fields, 1))
	if selection == "" {
		selection = "c"
	}
	payload := fieldAt(fields, 2)
	if len(payload) == 1 && payload[0] == '?' {
		if !s.Permission.RequestPermission("clipboard-read") {
			return
		}
		data := s.Clipboard.ReadClipboard(selection)
		s.reply(fmt.Sprintf("\x1b]52;%s;%s\x07", selection, base64Encode(data)))
		return
	}
	if !s.Permission.RequestPermission("clipboard-write") {
		return
	}
	decoded, err := base64Decode(payload)
	if err != nil {
		s.errorSink.ReportParseError("osc52", err.Error())
		return
	}
	s.Clipboard.WriteClipboard(selection, decoded)
}

func (s *Screen) handleShellIntegration(fields [][]byte) {
	if len(fields) < 2 {
		return
	}
	kind := string(fields[1])
	exitCode := -1
	var markType PromptMarkType
	switch kind {
	case "A":
		markType = PromptStart
	case "B":
		markType = CommandStart
	case "C":
		markType = CommandExecuted
	case "D":
		markType = CommandFinished
		if len(fields) >= 3 {
			if v, err := strconv.Atoi(string(fields[2])); err == nil {
				exitCode = v
			}
		}
	default:
		return
	}
	absRow := s.active.Cursor.Row + s.primary.Grid.ScrollbackLen()
	s.marks.Record(markType, absRow, exitCode)
	s.Prompt.OnMark(markType, exitCode)
}

func (s *Screen) DCS(params [][]int, intermediates []byte, final byte, data []byte) {
	switch {
	case final == 'q' && hasIntermediate(intermediates, '$'): // DECRQSS
		s.handleRequestStatusString(data)
	case final == 'q': // Sixel image (same final byte, no '$' intermediate)
		s.handleSixel(data)
	}
}

func (s *Screen) handleSixel(data []byte) {
	width, height, pixels := ParseSixel(data)
	if width == 0 || height == 0 {
		return
	}
	img := s.images.Store(width, height, pixels)
	cur := s.active.Cursor
	rows := (height + 5) / 6
	cols := (width + 9) / 10
	s.images.RecordPlacement(ImagePlacement{ImageID: img.ID, Row: cur.Row, Col: cur.Col, Rows: rows, Cols: cols})
}

// handleRequestStatusString answers DECRQSS (spec §4.3/§6.1, SPEC_FULL.md
// §4) for the nine settings original_source/Functions.cpp supports. A
// valid request gets "\x1bP1$r<value>\x1b\\"; an unsupported one gets
// "\x1bP0$r\x1b\\".
func (s *Screen) handleRequestStatusString(data []byte) {
	req := string(data) // parser.DCS never includes the ST terminator
	grid := s.active.Grid
	cur := s.active.Cursor

	var value string
	switch req {
	case "m":
		value = s.sgrString()
	case "\"q":
		value = "0\"q" // DECSCA: not protected
	case "\"p":
		value = "65;1\"p" // DECSCL: VT500 conformance level (as DA1 reports), 7-bit controls
	case " q":
		value = fmt.Sprintf("%d q", cursorStyleCode(cur.Style))
	case "r":
		value = fmt.Sprintf("%d;%dr", grid.ScrollTop+1, grid.ScrollBottom+1)
	case "s":
		value = fmt.Sprintf("%d;%ss", grid.ScrollLeft+1, colOrDefault(grid.ScrollRight+1, grid.Cols()))
	case "t":
		value = fmt.Sprintf("%dt", grid.Rows())
	case "$|":
		value = fmt.Sprintf("%d$|", grid.Cols())
	case "*|":
		value = fmt.Sprintf("%d*|", grid.Rows())
	default:
		s.reply("\x1bP0$r\x1b\\")
		return
	}
	s.reply("\x1bP1$r" + value + "\x1b\\")
}

func colOrDefault(v, fallback int) string {
	if v <= 0 {
		return strconv.Itoa(fallback)
	}
	return strconv.Itoa(v)
}

func cursorStyleCode(style CursorStyle) int {
	switch style {
	case CursorBlock:
		return 2
	case CursorUnderline:
		return 4
	case CursorBar:
		return 6
	default:
		return 2
	}
}

// sgrString renders the active pen's attribute flags as the SGR parameter
// string a DECRQSS "m" reply echoes back; colors are not included.
func (s *Screen) sgrString() string {
	cur := s.active.Cursor
	parts := []string{"0"}
	f := cur.Template.Flags
	has := func(bit Flags) bool { return f&bit != 0 }
	if has(FlagBold) {
		parts = append(parts, "1")
	}
	if has(FlagFaint) {
		parts = append(parts, "2")
	}
	if has(FlagItalic) {
		parts = append(parts, "3")
	}
	if has(FlagUnderline) {
		parts = append(parts, "4")
	}
	if has(FlagBlinkSlow) {
		parts = append(parts, "5")
	}
	if has(FlagInverse) {
		parts = append(parts, "7")
	}
	if has(FlagHidden) {
		parts = append(parts, "8")
	}
	if has(FlagStrikethrough) {
		parts = append(parts, "9")
	}
	return strings.Join(parts, ";") + "m"
}

// APC dispatches Application Program Command payloads. The only APC
// sequence spec's domain calls for is the Kitty graphics protocol
// ("G..." prefix); anything else is ignored the way DCS ignores
// unrecognized final bytes.
func (s *Screen) APC(data []byte) {
	if len(data) > 0 && data[0] == 'G' {
		s.handleKittyGraphics(data)
	}
}
func (s *Screen) PM(data []byte)  {}
func (s *Screen) SOS(data []byte) {}
