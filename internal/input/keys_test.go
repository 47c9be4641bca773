package input

import (
	"bytes"
	"testing"
)

func TestArrowKeysRespectAppCursorMode(t *testing.T) {
	r := TranslateKey(KeyUp, 0, false, false)
	if !bytes.Equal(r.Data, []byte("\x1b[A")) {
		t.Fatalf("normal mode up = %q", r.Data)
	}
	r = TranslateKey(KeyUp, 0, true, false)
	if !bytes.Equal(r.Data, []byte("\x1bOA")) {
		t.Fatalf("app cursor mode up = %q", r.Data)
	}
}

func TestCtrlLetterEncodesControlCode(t *testing.T) {
	r := TranslateKey(KeyA, ModControl, false, false)
	if len(r.Data) != 1 || r.Data[0] != 1 {
		t.Fatalf("ctrl+a = %v want [1]", r.Data)
	}
}

func TestShiftPageUpScrolls(t *testing.T) {
	r := TranslateKey(KeyPageUp, ModShift, false, false)
	if r.Action != ActionScrollUp {
		t.Fatalf("action = %v want ActionScrollUp", r.Action)
	}
}

func TestMouseSGREncoding(t *testing.T) {
	got := EncodeMouseSGR(MouseLeft, MousePress, 0, 3, 10)
	want := "\x1b[<0;11;4M"
	if string(got) != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
