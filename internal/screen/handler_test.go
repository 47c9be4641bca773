package screen

import (
	"testing"

	"github.com/dgterm/vtcore/internal/vtparse"
)

func feed(s *Screen, data string) {
	p := vtparse.NewParser(s)
	p.Feed([]byte(data))
}

func TestPrintAdvancesCursor(t *testing.T) {
	s := New(5, 10)
	feed(s, "abc")
	row, col := s.CursorPosition()
	if row != 0 || col != 3 {
		t.Fatalf("cursor = %d,%d want 0,3", row, col)
	}
	if s.LineContent(0) != "abc       " {
		t.Fatalf("line = %q", s.LineContent(0))
	}
}

func TestLineWrapSetsPendingThenWraps(t *testing.T) {
	s := New(3, 4)
	feed(s, "abcd")
	row, col := s.CursorPosition()
	if row != 0 || col != 3 {
		t.Fatalf("before wrap-print cursor = %d,%d want 0,3 (pending)", row, col)
	}
	feed(s, "e")
	row, col = s.CursorPosition()
	if row != 1 || col != 1 {
		t.Fatalf("after wrap-print cursor = %d,%d want 1,1", row, col)
	}
	if s.LineContent(1)[0] != 'e' {
		t.Fatalf("expected wrapped char on next line, got %q", s.LineContent(1))
	}
}

func TestCursorUpDownClampedToScreen(t *testing.T) {
	s := New(3, 10)
	feed(s, "\x1b[10A") // CUU beyond top
	row, _ := s.CursorPosition()
	if row != 0 {
		t.Fatalf("row = %d want 0", row)
	}
	feed(s, "\x1b[10B") // CUD beyond bottom
	row, _ = s.CursorPosition()
	if row != 2 {
		t.Fatalf("row = %d want 2", row)
	}
}

func TestCUPAndEraseDisplay(t *testing.T) {
	s := New(3, 5)
	feed(s, "abcdeabcdeabcde")
	feed(s, "\x1b[1;1H\x1b[2J")
	for r := 0; r < 3; r++ {
		if s.LineContent(r) != "     " {
			t.Fatalf("row %d = %q want blank", r, s.LineContent(r))
		}
	}
}

func TestSGRColorsAndReset(t *testing.T) {
	s := New(1, 5)
	feed(s, "\x1b[31;1mX\x1b[0mY")
	cellX := s.Cell(0, 0)
	if cellX.Fg.Kind != ColorNamed || cellX.Fg.Index != 1 {
		t.Fatalf("fg = %+v want red(1)", cellX.Fg)
	}
	if !cellX.HasFlag(FlagBold) {
		t.Fatalf("expected bold flag")
	}
	cellY := s.Cell(0, 1)
	if cellY.HasFlag(FlagBold) {
		t.Fatalf("bold should be cleared after SGR 0")
	}
}

func TestScrollRegionScrollsOnlyWithinMargins(t *testing.T) {
	s := New(5, 5)
	feed(s, "\x1b[2;4r") // rows 2-4 (1-based) as scroll region
	feed(s, "\n\n\n\n\n") // drive enough line feeds to scroll within region
	// Row 0 (outside region) must be untouched (still blank).
	if s.LineContent(0) != "     " {
		t.Fatalf("row 0 should be untouched by in-region scroll, got %q", s.LineContent(0))
	}
}

func TestAlternateScreenSwitch(t *testing.T) {
	s := New(3, 5)
	feed(s, "abc")
	feed(s, "\x1b[?1049h")
	if !s.IsAlternateScreen() {
		t.Fatalf("expected alternate screen active")
	}
	feed(s, "\x1b[?1049l")
	if s.IsAlternateScreen() {
		t.Fatalf("expected primary screen restored")
	}
	if s.LineContent(0) != "abc  " {
		t.Fatalf("primary content not preserved: %q", s.LineContent(0))
	}
}

func TestSelectionAndSearch(t *testing.T) {
	s := New(2, 10)
	feed(s, "hello\r\nworld")
	matches := s.Search("world")
	if len(matches) != 1 || matches[0] != (Position{Row: 1, Col: 0}) {
		t.Fatalf("matches = %v", matches)
	}
	s.SetSelection(Position{Row: 0, Col: 0}, Position{Row: 0, Col: 4}, SelectionLinear)
	if got := s.GetSelectedText(); got != "hello" {
		t.Fatalf("selected text = %q want hello", got)
	}
}

func TestWorkingDirectoryOSC7(t *testing.T) {
	s := New(5, 10)
	feed(s, "\x1b]7;file://localhost/home/user\x07")
	if s.WorkingDirectory() != "file://localhost/home/user" {
		t.Fatalf("WorkingDirectory() = %q", s.WorkingDirectory())
	}
	if path := s.WorkingDirectoryPath(); path != "/home/user" {
		t.Fatalf("WorkingDirectoryPath() = %q", path)
	}
}

func TestHyperlinkOSC8(t *testing.T) {
	s := New(1, 10)
	feed(s, "\x1b]8;;http://example.com\x07link\x1b]8;;\x07")
	cell := s.Cell(0, 0)
	if cell.Hyperlink == nil || cell.Hyperlink.URI != "http://example.com" {
		t.Fatalf("hyperlink = %+v", cell.Hyperlink)
	}
	afterClose := s.Cell(0, 4)
	if afterClose.Hyperlink != nil {
		t.Fatalf("expected no hyperlink after OSC 8 close, got %+v", afterClose.Hyperlink)
	}
}

func TestShellIntegrationMarks(t *testing.T) {
	s := New(1, 10)
	feed(s, "\x1b]133;A\x07")
	feed(s, "\x1b]133;D;0\x07")
	marks := s.PromptMarks().All()
	if len(marks) != 2 {
		t.Fatalf("marks = %d want 2", len(marks))
	}
	if marks[1].Type != CommandFinished || marks[1].ExitCode != 0 {
		t.Fatalf("second mark = %+v", marks[1])
	}
}

func TestDeviceStatusReportCPR(t *testing.T) {
	var got []byte
	s := New(5, 10, WithResponseWriter(func(b []byte) { got = append(got, b...) }))
	feed(s, "\x1b[3;4H")
	feed(s, "\x1b[6n")
	if string(got) != "\x1b[3;4R" {
		t.Fatalf("CPR reply = %q", got)
	}
}

func TestDECRQMReportsRecognizedMode(t *testing.T) {
	var got []byte
	s := New(5, 10, WithResponseWriter(func(b []byte) { got = append(got, b...) }))
	feed(s, "\x1b[?25h")
	feed(s, "\x1b[?25$p")
	if string(got) != "\x1b[?25;1$y" {
		t.Fatalf("DECRPM reply = %q", got)
	}
}

func TestDECRQSSRespondsToSGRQuery(t *testing.T) {
	var got []byte
	s := New(5, 10, WithResponseWriter(func(b []byte) { got = append(got, b...) }))
	feed(s, "\x1b[1m")
	feed(s, "\x1bP$qm\x1b\\")
	if string(got) != "\x1bP1$r0;1m\x1b\\" {
		t.Fatalf("DECRQSS reply = %q", got)
	}
}

func TestDA1Response(t *testing.T) {
	var got []byte
	s := New(5, 10, WithResponseWriter(func(b []byte) { got = append(got, b...) }))
	feed(s, "\x1b[c")
	if string(got) != "\x1b[?65;1;9c" {
		t.Fatalf("DA1 reply = %q", got)
	}
}

func TestSixelStillDispatchesWithoutDollarIntermediate(t *testing.T) {
	s := New(5, 10)
	feed(s, "\x1bP0;0;0q#0;2;0;0;0#0~~\x1b\\")
	if len(s.Images().Placements()) == 0 {
		t.Fatalf("expected sixel image placement to be recorded")
	}
}
