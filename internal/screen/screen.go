package screen

// ScreenState is the complete state of one screen buffer (primary or
// alternate): its grid, cursor (which carries the SGR pen), and saved-cursor slot —
// the spec's ScreenState/Terminal split, realized as "ScreenState holds
// the buffer-local half, Screen holds the shared half".
type ScreenState struct {
	Grid        *Grid
	Cursor      Cursor
	Saved       *SavedCursor
	AutoResize  bool
}

func newScreenState(rows, cols, scrollbackCap int) *ScreenState {
	return &ScreenState{
		Grid:   NewGrid(rows, cols, scrollbackCap),
		Cursor: Cursor{Visible: true, Template: CellTemplate{}},
	}
}

// Screen is the full dual-buffer terminal core: primary screen (with
// scrollback), alternate screen (without), shared mode flags, palette,
// selection, prompt marks and image pool. It implements the operations
// vtparse.Dispatcher expects (see handler.go) and exposes the read-only
// query surface a session/renderer needs.
//
// Screen itself holds no lock, unlike _examples/danielgatis-go-headless-term/terminal.go's
// per-struct sync.RWMutex: spec §5 wants one reentrant-by-construction
// critical section spanning parse-and-apply, input handling and vi
// commands together, not a lock scoped to the grid alone. session.Session
// is the single lock holder; every Screen method must be called with
// that lock held.
type Screen struct {
	primary   *ScreenState
	alternate *ScreenState
	active    *ScreenState
	onAlt     bool

	Modes ModeSet

	palette  [256][3]uint8
	defaultFg, defaultBg [3]uint8

	selection Selection
	images    *ImagePool
	marks     PromptMarks

	Bell       BellProvider
	Title      TitleProvider
	Clipboard  ClipboardProvider
	Notify     NotifyProvider
	Permission PermissionProvider
	Prompt     SemanticPromptHandler

	Middleware *Middleware

	errorSink  ErrorSink
	respond    func([]byte)
	title      string
	titleStack []string
	workingDir string
}

// Option configures a new Screen (teacher's functional-option idiom, see
// _examples/danielgatis-go-headless-term/terminal.go's With* constructors).
type Option func(*Screen)

func WithScrollbackCapacity(n int) Option {
	return func(s *Screen) { s.primary.Grid.scrollback = newScrollback(n) }
}

// WithPalette overrides the default 256-color palette (spec §6.4's
// "color palette or dual-palette" configuration surface).
func WithPalette(p [256][3]uint8) Option {
	return func(s *Screen) { s.palette = p }
}

func WithAutoResize() Option {
	return func(s *Screen) { s.primary.AutoResize = true }
}

func WithBell(p BellProvider) Option       { return func(s *Screen) { s.Bell = p } }
func WithTitle(p TitleProvider) Option     { return func(s *Screen) { s.Title = p } }
func WithClipboard(p ClipboardProvider) Option {
	return func(s *Screen) { s.Clipboard = p }
}
func WithNotify(p NotifyProvider) Option         { return func(s *Screen) { s.Notify = p } }
func WithPermission(p PermissionProvider) Option { return func(s *Screen) { s.Permission = p } }
func WithSemanticPromptHandler(p SemanticPromptHandler) Option {
	return func(s *Screen) { s.Prompt = p }
}
func WithMiddleware(mw *Middleware) Option { return func(s *Screen) { s.Middleware = mw } }
func WithErrorSink(e ErrorSink) Option      { return func(s *Screen) { s.errorSink = e } }

// WithResponseWriter supplies the callback used to send guest-directed
// reply sequences (DSR/CPR, DA1-3, DECRPM, DECRQSS, OSC 52 clipboard
// reads) back over the transport — spec keeps wire I/O out of the screen
// engine itself, so this is the session layer's hook into it
// (SPEC_FULL.md §1).
func WithResponseWriter(fn func([]byte)) Option { return func(s *Screen) { s.respond = fn } }

// New creates a Screen sized rows x cols with no scrollback by default.
func New(rows, cols int, opts ...Option) *Screen {
	s := &Screen{
		primary:    newScreenState(rows, cols, 0),
		alternate:  newScreenState(rows, cols, 0),
		palette:    DefaultPalette,
		defaultFg:  [3]uint8{229, 229, 229},
		defaultBg:  [3]uint8{0, 0, 0},
		Bell:       NoopBell{},
		Title:      NoopTitle{},
		Clipboard:  NoopClipboard{},
		Notify:     NoopNotify{},
		Permission: AllowAllPermissions{},
		Prompt:     NoopSemanticPromptHandler{},
		errorSink:  NoopErrorSink{},
	}
	s.active = s.primary
	s.Modes.Set(ModeLineWrap, true)
	s.Modes.Set(ModeShowCursor, true)
	s.Modes.Set(ModeAutoRepeat, true)
	for _, o := range opts {
		o(s)
	}
	if s.images == nil {
		s.images = NewImagePool(0)
	}
	return s
}

func (s *Screen) Rows() int { return s.active.Grid.Rows() }
func (s *Screen) Cols() int { return s.active.Grid.Cols() }

func (s *Screen) IsAlternateScreen() bool { return s.onAlt }

func (s *Screen) Cell(row, col int) *Cell { return s.active.Grid.Cell(row, col) }

func (s *Screen) LineContent(row int) string { return LineText(s.active.Grid.Line(row)) }

func (s *Screen) CursorPosition() (row, col int) {
	return s.active.Cursor.Row, s.active.Cursor.Col
}

func (s *Screen) HasMode(m Mode) bool { return s.Modes.Has(m) }

func (s *Screen) HasDirty() bool { return s.active.Grid.HasDirty() }

func (s *Screen) DirtyRows() []int { return s.active.Grid.DirtyRows() }

func (s *Screen) ClearDirty() { s.active.Grid.ClearDirty() }

func (s *Screen) ScrollbackLen() int { return s.primary.Grid.ScrollbackLen() }

func (s *Screen) ScrollbackLine(i int) *Line { return s.primary.Grid.ScrollbackLine(i) }

func (s *Screen) SetSelection(start, end Position, mode SelectionMode) {
	s.selection = Selection{Mode: mode, Start: start, End: end}
}

func (s *Screen) ClearSelection() { s.selection = Selection{} }

func (s *Screen) HasSelection() bool { return s.selection.Active() }

func (s *Screen) GetSelectedText() string { return s.selection.SelectedText(s.active.Grid) }

func (s *Screen) Search(needle string) []Position { return Search(s.active.Grid, needle) }

func (s *Screen) SearchScrollback(needle string) []Position {
	return SearchScrollback(s.primary.Grid, needle)
}

func (s *Screen) Images() *ImagePool { return s.images }

// Reset performs a full terminal reset (RIS), the same state transition
// Escape('c') triggers, exposed for callers like the ClearHistoryAndReset
// action that need to invoke it without feeding a literal escape sequence.
func (s *Screen) Reset() { s.reset() }

// ClearScrollback discards all scrollback history without touching the
// visible grid, matching _examples/danielgatis-go-headless-term/terminal.go's ClearScrollback.
func (s *Screen) ClearScrollback() { s.primary.Grid.ClearScrollback() }

func (s *Screen) PromptMarks() *PromptMarks { return &s.marks }

// LastCommandOutput extracts the text of the most recently finished
// shell command (spec's OSC 133 "CopyPreviousMarkRange" action target).
func (s *Screen) LastCommandOutput() string { return s.marks.LastCommandOutput(s.primary.Grid) }

func (s *Screen) Snapshot(detail SnapshotDetail) *RenderBuffer {
	return Snapshot(s.active.Grid, s.active.Cursor, detail, s.onAlt)
}

// Resize changes the active screen dimensions. Shrinking the primary
// screen first drops the rows below the cursor; if the cursor would still
// fall off the bottom, the rows above it scroll into scrollback (unless
// AutoResize is set, in which case the row count is never reduced),
// matching _examples/danielgatis-go-headless-term/terminal.go's Resize/scrollIfNeeded behavior.
func (s *Screen) Resize(rows, cols int, reflow bool) {
	if s.primary.AutoResize && rows < s.primary.Grid.Rows() {
		rows = s.primary.Grid.Rows()
	}
	if g := s.primary.Grid; !(reflow && cols != g.Cols()) {
		if over := s.primary.Cursor.Row + 1 - rows; over > 0 {
			g.ScrollTop, g.ScrollBottom = 0, g.Rows()-1
			g.ScrollLeft, g.ScrollRight = 0, g.Cols()-1
			g.ScrollUp(over, Cell{})
			s.primary.Cursor.Row -= over
		}
	}
	s.primary.Grid.Resize(rows, cols, reflow)
	s.alternate.Grid.Resize(rows, cols, false)
	clampCursor(&s.primary.Cursor, rows, cols)
	clampCursor(&s.alternate.Cursor, rows, cols)
}

func clampCursor(c *Cursor, rows, cols int) {
	if c.Row >= rows {
		c.Row = rows - 1
	}
	if c.Col >= cols {
		c.Col = cols - 1
	}
}
