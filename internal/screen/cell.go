package screen

// Flags are the per-cell rendering attributes set by SGR.
type Flags uint16

const (
	FlagBold Flags = 1 << iota
	FlagFaint
	FlagItalic
	FlagUnderline
	FlagDoubleUnderline
	FlagCurlyUnderline
	FlagDottedUnderline
	FlagDashedUnderline
	FlagBlinkSlow
	FlagBlinkFast
	FlagInverse
	FlagHidden
	FlagStrikethrough
	FlagOverline
	FlagWideSpacer // second half of a wide (East Asian double-width) rune
)

// Hyperlink is the OSC 8 target associated with a run of cells.
type Hyperlink struct {
	URI string
	ID  string
}

// Cell is a single terminal grid position: a rune plus its rendering state.
type Cell struct {
	Char  rune
	Width uint8 // 0, 1, or 2 display columns
	Flags Flags

	Fg          Color
	Bg          Color
	UnderlineFg Color // separate underline color (SGR 58/59), zero value means "use Fg"

	Hyperlink *Hyperlink
	Image     *CellImage // non-nil when this cell is occupied by image data

	dirty bool
}

// HasFlag reports whether the given flag bit is set.
func (c *Cell) HasFlag(f Flags) bool { return c.Flags&f != 0 }

// IsWideSpacer reports whether this cell is the trailing half of a wide rune.
func (c *Cell) IsWideSpacer() bool { return c.HasFlag(FlagWideSpacer) }

// Reset turns the cell into a blank space carrying template's attributes
// (colors, flags, hyperlink) and no image — used by erase operations.
func (c *Cell) Reset(template Cell) {
	*c = template
	c.Char = ' '
	c.Width = 1
	c.Image = nil
	c.dirty = true
}

// Blank reports whether the cell holds only a space (or nothing) with no
// flags and no image; colors are not considered.
func (c *Cell) Blank() bool {
	return (c.Char == ' ' || c.Char == 0) && c.Flags == 0 && c.Image == nil
}
