package screen

// CharsetIndex selects one of the four G0-G3 designator slots.
type CharsetIndex uint8

const (
	G0 CharsetIndex = iota
	G1
	G2
	G3
)

// Charset identifies a designated character set (ASCII, DEC special
// graphics, UK national, etc).
type Charset uint8

const (
	CharsetASCII Charset = iota
	CharsetDECGraphics
	CharsetUK
)

// CellTemplate is the pen: the attributes that will be stamped onto the
// next printed cell.
type CellTemplate struct {
	Fg, Bg, UnderlineFg Color
	Flags               Flags

	activeHyperlink *Hyperlink // set by OSC 8, stamped onto subsequently printed cells
}

// Cursor tracks position and rendering style within a ScreenState.
type Cursor struct {
	Row, Col int
	Pending  bool // pending-wrap: next print wraps before placing the glyph

	Template CellTemplate

	Charsets    [4]Charset
	ActiveSet   CharsetIndex
	SingleShift CharsetIndex // G2/G3 slot for a single-shift (SS2/SS3); no handler sets it
	ShiftedOut  bool         // true after SO, false after SI

	Visible bool
	Style   CursorStyle
}

// CursorStyle is the DECSCUSR-selected cursor rendering shape.
type CursorStyle uint8

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
)

// SavedCursor is the DECSC/DECRC snapshot: cursor position, pen, charset
// state, and the origin-mode flag active when the save happened.
type SavedCursor struct {
	Cursor     Cursor
	OriginMode bool
}
