package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgterm/vtcore/internal/screen"
)

// PaletteConfig is a 256-entry color palette, keyed by index in YAML so
// a profile need only override the handful of entries it cares about;
// unset entries fall back to screen.DefaultPalette.
type PaletteConfig struct {
	Colors map[int]string `yaml:"colors"` // index -> "#rrggbb"
}

// Resolve builds a full [256][3]uint8 palette, starting from
// screen.DefaultPalette and overlaying p's entries.
func (p *PaletteConfig) Resolve() ([256][3]uint8, error) {
	out := screen.DefaultPalette
	if p == nil {
		return out, nil
	}
	for idx, hex := range p.Colors {
		if idx < 0 || idx > 255 {
			return out, fmt.Errorf("palette index %d out of range 0-255", idx)
		}
		rgb, err := parseHexColor(hex)
		if err != nil {
			return out, fmt.Errorf("palette[%d]: %w", idx, err)
		}
		out[idx] = rgb
	}
	return out, nil
}

func parseHexColor(s string) ([3]uint8, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return [3]uint8{}, fmt.Errorf("color %q must be 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return [3]uint8{}, fmt.Errorf("color %q: %w", s, err)
	}
	return [3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// ResolveForDark returns the single active palette for a profile: the
// dark or light half of the dual-palette pair if that half is given, or
// Palette, or the default.
// Dual-palette selection (which of dark/light is "active") is a
// rasterizer/theme concern outside this core's scope — the session
// layer picks one at construction time via ResolveForDark.
func (p *Profile) ResolveForDark(dark bool) ([256][3]uint8, error) {
	if p.DarkPalette != nil || p.LightPalette != nil {
		if dark && p.DarkPalette != nil {
			return p.DarkPalette.Resolve()
		}
		if !dark && p.LightPalette != nil {
			return p.LightPalette.Resolve()
		}
	}
	return p.Palette.Resolve()
}
