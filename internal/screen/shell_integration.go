package screen

import "strings"

// PromptMarkType is the OSC 133 mark subtype.
type PromptMarkType uint8

const (
	PromptStart PromptMarkType = iota
	CommandStart
	CommandExecuted
	CommandFinished
)

// PromptMark records one OSC 133 mark's absolute row (row + however many
// scrollback lines existed when the mark arrived), so later scrollback
// growth doesn't invalidate it.
type PromptMark struct {
	Type     PromptMarkType
	Row      int
	ExitCode int
}

// PromptMarks is an append-only log of marks plus prompt-relative
// navigation helpers (spec's "Marks" feature, OSC 133 shell integration),
// grounded on _examples/danielgatis-go-headless-term/semantic_prompt.go.
type PromptMarks struct {
	marks []PromptMark
}

func (pm *PromptMarks) Record(t PromptMarkType, absRow, exitCode int) {
	pm.marks = append(pm.marks, PromptMark{Type: t, Row: absRow, ExitCode: exitCode})
}

func (pm *PromptMarks) All() []PromptMark {
	out := make([]PromptMark, len(pm.marks))
	copy(out, pm.marks)
	return out
}

func (pm *PromptMarks) Clear() { pm.marks = nil }

// Next returns the absolute row of the next mark after currentAbsRow, or -1.
// markType == -1 matches any type.
func (pm *PromptMarks) Next(currentAbsRow int, markType int) int {
	for _, m := range pm.marks {
		if m.Row > currentAbsRow && (markType == -1 || int(m.Type) == markType) {
			return m.Row
		}
	}
	return -1
}

// Prev returns the absolute row of the previous mark before currentAbsRow, or -1.
func (pm *PromptMarks) Prev(currentAbsRow int, markType int) int {
	for i := len(pm.marks) - 1; i >= 0; i-- {
		m := pm.marks[i]
		if m.Row < currentAbsRow && (markType == -1 || int(m.Type) == markType) {
			return m.Row
		}
	}
	return -1
}

// SetWorkingDirectory records the cwd reported via OSC 7, grounded on
// _examples/danielgatis-go-headless-term/handler.go's SetWorkingDirectory/WorkingDirectory.
func (s *Screen) SetWorkingDirectory(uri string) { s.workingDir = uri }

// WorkingDirectory returns the most recently reported OSC 7 URI.
func (s *Screen) WorkingDirectory() string { return s.workingDir }

// WorkingDirectoryPath extracts the filesystem path from a "file://host/path"
// URI (or "file:///path" with an empty host), matching
// _examples/danielgatis-go-headless-term/handler.go's WorkingDirectoryPath.
func (s *Screen) WorkingDirectoryPath() string {
	const prefix = "file://"
	if !strings.HasPrefix(s.workingDir, prefix) {
		return ""
	}
	rest := s.workingDir[len(prefix):]
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return ""
	}
	return rest[slash:]
}

// LastCommandOutput extracts the text between the last CommandExecuted and
// the following CommandFinished mark, matching
// _examples/danielgatis-go-headless-term/semantic_prompt.go's GetLastCommandOutput semantics.
func (pm *PromptMarks) LastCommandOutput(g *Grid) string {
	var executed, finished *PromptMark
	for i := len(pm.marks) - 1; i >= 0; i-- {
		m := &pm.marks[i]
		if finished == nil && m.Type == CommandFinished {
			finished = m
		}
		if executed == nil && m.Type == CommandExecuted {
			executed = m
		}
		if executed != nil && finished != nil {
			if executed.Row < finished.Row {
				break
			}
			executed, finished = nil, nil
		}
	}
	if executed == nil || finished == nil {
		return ""
	}
	sbLen := g.ScrollbackLen()
	var lines []string
	for row := executed.Row; row < finished.Row; row++ {
		var l *Line
		if row < sbLen {
			l = g.ScrollbackLine(row)
		} else {
			l = g.Line(row - sbLen)
		}
		lines = append(lines, LineText(l))
	}
	lastNonEmpty := -1
	for i, l := range lines {
		if l != "" {
			lastNonEmpty = i
		}
	}
	if lastNonEmpty < 0 {
		return ""
	}
	out := ""
	for i := 0; i <= lastNonEmpty; i++ {
		if i > 0 {
			out += "\n"
		}
		out += lines[i]
	}
	return out
}
