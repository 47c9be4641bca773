package screen

// SnapshotDetail selects how much of the grid state a Snapshot captures.
type SnapshotDetail uint8

const (
	SnapshotDetailText SnapshotDetail = iota
	SnapshotDetailStyled
	SnapshotDetailFull
)

// SnapshotCell is one cell as exposed in a RenderBuffer. Consumers (an
// external renderer) never see internal dirty bits.
type SnapshotCell struct {
	Char  rune
	Width uint8
	Flags Flags

	Fg, Bg, UnderlineFg Color

	HyperlinkURI string
	Image        *CellImage
}

// SnapshotLine is one rendered row.
type SnapshotLine struct {
	Text  string         // always populated
	Cells []SnapshotCell // populated at SnapshotDetailStyled or Full
}

// RenderBuffer is a double-buffered, non-rasterizing capture of visible
// screen state: the data an external renderer needs, nothing about how to
// draw it. Snapshot() always produces a fresh RenderBuffer; the "double
// buffer" is the previous vs. current value the caller retains.
type RenderBuffer struct {
	Detail       SnapshotDetail
	Rows, Cols   int
	Lines        []SnapshotLine
	CursorRow    int
	CursorCol    int
	CursorVisible bool
	AlternateScreen bool
}

// Snapshot captures the current grid into a RenderBuffer at the requested
// detail level.
func Snapshot(g *Grid, cur Cursor, detail SnapshotDetail, alt bool) *RenderBuffer {
	rb := &RenderBuffer{
		Detail: detail, Rows: g.Rows(), Cols: g.Cols(),
		CursorRow: cur.Row, CursorCol: cur.Col, CursorVisible: cur.Visible,
		AlternateScreen: alt,
	}
	rb.Lines = make([]SnapshotLine, g.Rows())
	for r := 0; r < g.Rows(); r++ {
		line := g.Line(r)
		sl := SnapshotLine{Text: LineText(line)}
		if detail != SnapshotDetailText {
			sl.Cells = make([]SnapshotCell, len(line.Cells))
			for i, c := range line.Cells {
				sc := SnapshotCell{Char: c.Char, Width: c.Width, Flags: c.Flags, Fg: c.Fg, Bg: c.Bg, UnderlineFg: c.UnderlineFg}
				if c.Hyperlink != nil {
					sc.HyperlinkURI = c.Hyperlink.URI
				}
				if detail == SnapshotDetailFull {
					sc.Image = c.Image
				}
				sl.Cells[i] = sc
			}
		}
		rb.Lines[r] = sl
	}
	return rb
}
