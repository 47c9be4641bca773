package cmd

import (
	"fmt"
	"io"

	"github.com/dgterm/vtcore/internal/screen"
)

// renderer repaints a screen.Screen's visible rows to an io.Writer,
// grounded on dcosson-h2/internal/session/client's RenderScreen. After
// each repaint it moves the cursor (CUP) to the snapshot's cursor
// position so the cursor only ever rests where the guest put it, and
// re-asserts visibility since forwarded guest output can hide it
// mid-paint.
type renderer struct {
	out io.Writer
	scr *screen.Screen
}

func newRenderer(out io.Writer, scr *screen.Screen) *renderer {
	return &renderer{out: out, scr: scr}
}

// full repaints every row, used once at startup and after a resize.
func (r *renderer) full() {
	rb := r.scr.Snapshot(screen.SnapshotDetailText)
	fmt.Fprint(r.out, "\033[2J")
	for i, line := range rb.Lines {
		fmt.Fprintf(r.out, "\033[%d;1H\033[K%s", i+1, line.Text)
	}
	r.placeCursor(rb)
}

// paintDirty repaints only the rows the grid marked dirty since the last
// call, then clears the dirty set (spec's grid tracks per-row dirty bits
// precisely so a renderer never has to diff cell-by-cell itself).
func (r *renderer) paintDirty() {
	if !r.scr.HasDirty() {
		return
	}
	rows := r.scr.DirtyRows()
	rb := r.scr.Snapshot(screen.SnapshotDetailText)
	for _, row := range rows {
		if row < 0 || row >= len(rb.Lines) {
			continue
		}
		fmt.Fprintf(r.out, "\033[%d;1H\033[K%s", row+1, rb.Lines[row].Text)
	}
	r.scr.ClearDirty()
	r.placeCursor(rb)
}

func (r *renderer) placeCursor(rb *screen.RenderBuffer) {
	fmt.Fprintf(r.out, "\033[%d;%dH", rb.CursorRow+1, rb.CursorCol+1)
	if rb.CursorVisible {
		fmt.Fprint(r.out, "\033[?25h")
	} else {
		fmt.Fprint(r.out, "\033[?25l")
	}
}
