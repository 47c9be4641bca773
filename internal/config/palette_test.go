package config

import "testing"

func TestPaletteConfigResolveOverlaysDefault(t *testing.T) {
	pc := &PaletteConfig{Colors: map[int]string{1: "#ff0000", 2: "00ff00"}}
	palette, err := pc.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if palette[1] != [3]uint8{0xff, 0x00, 0x00} {
		t.Errorf("palette[1] = %v", palette[1])
	}
	if palette[2] != [3]uint8{0x00, 0xff, 0x00} {
		t.Errorf("palette[2] = %v", palette[2])
	}
	// index 0 should be untouched, i.e. equal to the default palette.
	if palette[0] == palette[1] {
		t.Errorf("expected index 0 to stay at the default color")
	}
}

func TestPaletteConfigResolveRejectsBadHex(t *testing.T) {
	pc := &PaletteConfig{Colors: map[int]string{0: "notacolor"}}
	if _, err := pc.Resolve(); err == nil {
		t.Fatal("expected error for invalid hex color")
	}
}

func TestPaletteConfigResolveRejectsOutOfRangeIndex(t *testing.T) {
	pc := &PaletteConfig{Colors: map[int]string{300: "#ffffff"}}
	if _, err := pc.Resolve(); err == nil {
		t.Fatal("expected error for out-of-range palette index")
	}
}

func TestProfileResolveForDarkPicksDarkPalette(t *testing.T) {
	p := &Profile{
		DarkPalette:  &PaletteConfig{Colors: map[int]string{1: "#111111"}},
		LightPalette: &PaletteConfig{Colors: map[int]string{1: "#eeeeee"}},
	}
	dark, err := p.ResolveForDark(true)
	if err != nil {
		t.Fatalf("ResolveForDark(true): %v", err)
	}
	if dark[1] != [3]uint8{0x11, 0x11, 0x11} {
		t.Errorf("dark[1] = %v", dark[1])
	}

	light, err := p.ResolveForDark(false)
	if err != nil {
		t.Fatalf("ResolveForDark(false): %v", err)
	}
	if light[1] != [3]uint8{0xee, 0xee, 0xee} {
		t.Errorf("light[1] = %v", light[1])
	}
}

func TestProfileResolveForDarkFallsBackToPalette(t *testing.T) {
	p := &Profile{Palette: &PaletteConfig{Colors: map[int]string{1: "#abcdef"}}}
	got, err := p.ResolveForDark(true)
	if err != nil {
		t.Fatalf("ResolveForDark: %v", err)
	}
	if got[1] != [3]uint8{0xab, 0xcd, 0xef} {
		t.Errorf("got[1] = %v", got[1])
	}
}
