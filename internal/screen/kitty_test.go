package screen

import (
	"encoding/base64"
	"testing"
)

func TestParseKittyGraphicsTransmitDisplay(t *testing.T) {
	data := []byte("Ga=T,f=32,s=2,v=2;AAAAAAAAAAAAAAAAAAAAAAA=")
	cmd, err := ParseKittyGraphics(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Action != KittyActionTransmitDisplay {
		t.Errorf("expected action T, got %c", cmd.Action)
	}
	if cmd.Format != KittyFormatRGBA {
		t.Errorf("expected format 32, got %d", cmd.Format)
	}
	if cmd.Width != 2 || cmd.Height != 2 {
		t.Errorf("expected 2x2, got %dx%d", cmd.Width, cmd.Height)
	}
}

func TestParseKittyGraphicsDelete(t *testing.T) {
	data := []byte("Ga=d,d=a;")
	cmd, err := ParseKittyGraphics(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Action != KittyActionDelete {
		t.Errorf("expected action d, got %c", cmd.Action)
	}
	if cmd.Delete != KittyDeleteAll {
		t.Errorf("expected delete all, got %c", cmd.Delete)
	}
}

func TestKittyCommandDecodeRGB(t *testing.T) {
	rgb := make([]byte, 12)
	for i := range rgb {
		rgb[i] = 128
	}
	cmd := &KittyCommand{Format: KittyFormatRGB, Width: 2, Height: 2, Payload: rgb}

	data, w, h, err := cmd.DecodeImageData()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 2 || h != 2 {
		t.Errorf("expected 2x2, got %dx%d", w, h)
	}
	if len(data) != 16 {
		t.Errorf("expected 16 bytes RGBA, got %d", len(data))
	}
	if data[3] != 255 {
		t.Errorf("expected alpha 255, got %d", data[3])
	}
}

func TestScreenAPCKittyTransmitRecordsPlacement(t *testing.T) {
	s := New(5, 10)
	rgba := make([]byte, 2*2*4)
	payload := base64.StdEncoding.EncodeToString(rgba)
	feed(s, "\x1b_Ga=T,f=32,s=2,v=2;"+payload+"\x1b\\")

	placements := s.Images().Placements()
	if len(placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(placements))
	}
	if placements[0].Row != s.active.Cursor.Row || placements[0].Col != s.active.Cursor.Col {
		t.Errorf("expected placement anchored at cursor, got row=%d col=%d", placements[0].Row, placements[0].Col)
	}
}

func TestScreenAPCKittyDeleteClearsPlacements(t *testing.T) {
	s := New(5, 10)
	rgba := make([]byte, 2*2*4)
	payload := base64.StdEncoding.EncodeToString(rgba)
	feed(s, "\x1b_Ga=T,f=32,s=2,v=2;"+payload+"\x1b\\")
	feed(s, "\x1b_Ga=d,d=a;\x1b\\")

	if len(s.Images().Placements()) != 0 {
		t.Fatalf("expected placements cleared after delete")
	}
}
