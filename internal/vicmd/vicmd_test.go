package vicmd

import (
	"testing"

	"github.com/dgterm/vtcore/internal/screen"
)

func TestMoveClampsToGrid(t *testing.T) {
	scr := screen.New(5, 10)
	n := NewNavigator(scr)
	n.Move(MotionUp, 10)
	if n.Position().Row != 0 {
		t.Fatalf("row = %d want 0", n.Position().Row)
	}
	n.Move(MotionDown, 10)
	if n.Position().Row != 4 {
		t.Fatalf("row = %d want 4", n.Position().Row)
	}
}

func TestVisualSelectionUpdatesScreen(t *testing.T) {
	scr := screen.New(1, 20)
	feedString(scr, "hello world")
	n := NewNavigator(scr)
	n.Move(MotionLineStart, 1)
	n.EnterVisual(ModeVisual)
	n.Move(MotionWordEnd, 1)
	text := scr.GetSelectedText()
	if text != "hello" {
		t.Fatalf("selected = %q want hello", text)
	}
}

func TestJumpListBackForward(t *testing.T) {
	scr := screen.New(5, 10)
	n := NewNavigator(scr)
	n.Move(MotionFileEnd, 1)
	end := n.Position()
	if !n.JumpBack() {
		t.Fatalf("expected JumpBack to succeed")
	}
	if n.Position().Row != 0 {
		t.Fatalf("after JumpBack row = %d want 0", n.Position().Row)
	}
	if !n.JumpForward() {
		t.Fatalf("expected JumpForward to succeed")
	}
	if n.Position() != end {
		t.Fatalf("after JumpForward pos = %+v want %+v", n.Position(), end)
	}
}

func feedString(scr *screen.Screen, s string) {
	for _, r := range s {
		scr.Print(r)
	}
}

func TestBigWordMotionsSkipPunctuation(t *testing.T) {
	scr := screen.New(1, 20)
	feedString(scr, "foo.bar baz")

	n := NewNavigator(scr)
	n.Move(MotionLineStart, 1)
	n.Move(MotionBigWordForward, 1)
	if n.Position().Col != 8 {
		t.Fatalf("W landed at col %d want 8", n.Position().Col)
	}

	n2 := NewNavigator(scr)
	n2.Move(MotionLineStart, 1)
	n2.Move(MotionWordForward, 1)
	if n2.Position().Col != 3 {
		t.Fatalf("w from 0 landed at col %d want 3 (class change at '.')", n2.Position().Col)
	}
}

func TestMoveFindAndRepeat(t *testing.T) {
	scr := screen.New(1, 20)
	feedString(scr, "a,b,c,d")
	n := NewNavigator(scr)
	n.Move(MotionLineStart, 1)
	if !n.MoveFind(',', true, false, 1) {
		t.Fatalf("expected MoveFind to succeed")
	}
	if n.Position().Col != 1 {
		t.Fatalf("col = %d want 1", n.Position().Col)
	}
	if !n.RepeatFind(false, 1) {
		t.Fatalf("expected RepeatFind to succeed")
	}
	if n.Position().Col != 3 {
		t.Fatalf("col after repeat = %d want 3", n.Position().Col)
	}
	if !n.RepeatFind(true, 1) {
		t.Fatalf("expected reversed RepeatFind to succeed")
	}
	if n.Position().Col != 1 {
		t.Fatalf("col after reversed repeat = %d want 1", n.Position().Col)
	}
}

func TestMoveFindTill(t *testing.T) {
	scr := screen.New(1, 20)
	feedString(scr, "a,b,c")
	n := NewNavigator(scr)
	n.Move(MotionLineStart, 1)
	if !n.MoveFind(',', true, true, 1) {
		t.Fatalf("expected till-find to succeed")
	}
	if n.Position().Col != 0 {
		t.Fatalf("till col = %d want 0 (just before the comma)", n.Position().Col)
	}
}

func TestSearchResultMotions(t *testing.T) {
	scr := screen.New(3, 20)
	feedString(scr, "needle here")
	scr.Execute('\r')
	scr.Execute('\n')
	feedString(scr, "and needle there")
	n := NewNavigator(scr)
	n.SetSearch("needle")
	n.Move(MotionLineStart, 1)
	n.Move(MotionSearchResultForward, 1)
	if n.Position().Row != 1 {
		t.Fatalf("first n landed on row %d want 1", n.Position().Row)
	}
	n.Move(MotionSearchResultBackward, 1)
	if n.Position().Row != 0 {
		t.Fatalf("N landed on row %d want 0", n.Position().Row)
	}
}

func TestSelectTextObjectWord(t *testing.T) {
	scr := screen.New(1, 20)
	feedString(scr, "hello world")
	n := NewNavigator(scr)
	n.Move(MotionLineStart, 1)
	start, end, ok := n.SelectTextObject(TextObject{Scope: ScopeInner, Kind: KindWord})
	if !ok {
		t.Fatalf("expected iw to resolve")
	}
	if start.Col != 0 || end.Col != 4 {
		t.Fatalf("iw = %+v..%+v want 0..4", start, end)
	}
}

func TestSelectTextObjectBrackets(t *testing.T) {
	scr := screen.New(1, 20)
	feedString(scr, "f(a, b)")
	n := NewNavigator(scr)
	n.SetPosition(screen.Position{Row: 0, Col: 3})
	start, end, ok := n.SelectTextObject(TextObject{Scope: ScopeInner, Kind: KindRoundBrackets})
	if !ok {
		t.Fatalf("expected i( to resolve")
	}
	if start.Col != 2 || end.Col != 5 {
		t.Fatalf("i( = %+v..%+v want 2..5", start, end)
	}
	start, end, ok = n.SelectTextObject(TextObject{Scope: ScopeA, Kind: KindRoundBrackets})
	if !ok {
		t.Fatalf("expected a( to resolve")
	}
	if start.Col != 1 || end.Col != 6 {
		t.Fatalf("a( = %+v..%+v want 1..6", start, end)
	}
}

func TestSelectTextObjectQuotes(t *testing.T) {
	scr := screen.New(1, 20)
	feedString(scr, `x = "hi" end`)
	n := NewNavigator(scr)
	n.SetPosition(screen.Position{Row: 0, Col: 6})
	start, end, ok := n.SelectTextObject(TextObject{Scope: ScopeInner, Kind: KindDoubleQuotes})
	if !ok {
		t.Fatalf("expected i\" to resolve")
	}
	if start.Col != 5 || end.Col != 6 {
		t.Fatalf("i\" = %+v..%+v want 5..6", start, end)
	}
}

func TestParenthesisMatching(t *testing.T) {
	scr := screen.New(1, 20)
	feedString(scr, "(a(b)c)")
	n := NewNavigator(scr)
	n.SetPosition(screen.Position{Row: 0, Col: 0})
	n.Move(MotionParenthesisMatching, 1)
	if n.Position().Col != 6 {
		t.Fatalf("%% from outer '(' landed at %d want 6", n.Position().Col)
	}
}

func TestJumpToMarkUsesPromptMarks(t *testing.T) {
	scr := screen.New(5, 20)
	scr.PromptMarks().Record(screen.PromptStart, 0, 0)
	scr.PromptMarks().Record(screen.PromptStart, 3, 0)
	n := NewNavigator(scr)
	n.SetPosition(screen.Position{Row: 0, Col: 0})
	n.Move(MotionJumpToMarkForward, 1)
	if n.Position().Row != 3 {
		t.Fatalf("jump-to-mark-forward landed on row %d want 3", n.Position().Row)
	}
}

func TestJumpToLastJumpPointToggles(t *testing.T) {
	scr := screen.New(5, 20)
	n := NewNavigator(scr)
	n.Move(MotionFileEnd, 1)
	end := n.Position()
	n.Move(MotionJumpToLastJumpPoint, 1)
	if n.Position().Row != 0 {
		t.Fatalf("first `` landed on row %d want 0", n.Position().Row)
	}
	n.Move(MotionJumpToLastJumpPoint, 1)
	if n.Position() != end {
		t.Fatalf("second `` landed at %+v want %+v", n.Position(), end)
	}
}
