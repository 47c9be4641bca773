package vicmd

import "github.com/dgterm/vtcore/internal/screen"

// JumpList is a bounded back/forward navigation stack, browser-style:
// Push records a jump origin, Back/Forward move between origins while
// ferrying the position being left onto the opposite stack so the move
// can be undone. Positions are stored as given, in the grid's
// negative-row-means-scrollback convention (rows relative to the live
// screen), so a stored entry drifts by one line for each line that
// scrolls into history after it was recorded.
type JumpList struct {
	history []screen.Position
	future  []screen.Position
	cap     int
}

// NewJumpList creates a jump list whose history stack is bounded to cap entries.
func NewJumpList(cap int) *JumpList {
	return &JumpList{cap: cap}
}

// Push records pos as a jump origin and clears forward history (a fresh
// jump after navigating back discards the "redo" side).
func (j *JumpList) Push(pos screen.Position) {
	j.history = append(j.history, pos)
	if len(j.history) > j.cap {
		j.history = j.history[len(j.history)-j.cap:]
	}
	j.future = nil
}

// Back pops the most recent jump origin, pushing current onto the forward
// stack so Forward can return to it. Returns false if history is empty.
func (j *JumpList) Back(current screen.Position) (screen.Position, bool) {
	if len(j.history) == 0 {
		return screen.Position{}, false
	}
	target := j.history[len(j.history)-1]
	j.history = j.history[:len(j.history)-1]
	j.future = append(j.future, current)
	return target, true
}

// Forward pops the most recent forward entry, pushing current back onto
// history. Returns false if the forward stack is empty.
func (j *JumpList) Forward(current screen.Position) (screen.Position, bool) {
	if len(j.future) == 0 {
		return screen.Position{}, false
	}
	target := j.future[len(j.future)-1]
	j.future = j.future[:len(j.future)-1]
	j.history = append(j.history, current)
	return target, true
}
