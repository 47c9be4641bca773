package screen

// ColorKind distinguishes the three ways a Color can be specified.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorNamed             // one of the 16 standard ANSI colors
	ColorIndexed            // 256-color palette index
	ColorTrueColor          // 24-bit RGB
)

// Color is a terminal color in any of its three wire representations.
// The zero value is ColorDefault, meaning "inherit the pen's default".
type Color struct {
	Kind  ColorKind
	Index uint8 // valid for ColorNamed (0-15) and ColorIndexed (0-255)
	R, G, B uint8 // valid for ColorTrueColor
}

// RGBColor constructs a ColorTrueColor value.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorTrueColor, R: r, G: g, B: b}
}

// IndexedColor constructs a ColorIndexed value.
func IndexedColor(idx uint8) Color {
	return Color{Kind: ColorIndexed, Index: idx}
}

// NamedColor constructs a ColorNamed value (0-15).
func NamedColor(idx uint8) Color {
	return Color{Kind: ColorNamed, Index: idx % 16}
}

// DefaultPalette is the standard 256-color xterm palette: 16 named colors,
// a 6x6x6 color cube, then 24 grayscale steps.
var DefaultPalette = buildDefaultPalette()

func buildDefaultPalette() [256][3]uint8 {
	var p [256][3]uint8
	// 0-15: standard + bright ANSI colors.
	std := [16][3]uint8{
		{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
		{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
		{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	for i, c := range std {
		p[i] = c
	}
	// 16-231: 6x6x6 color cube.
	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[i] = [3]uint8{steps[r], steps[g], steps[b]}
				i++
			}
		}
	}
	// 232-255: grayscale ramp.
	for j := 0; j < 24; j++ {
		v := uint8(8 + j*10)
		p[232+j] = [3]uint8{v, v, v}
	}
	return p
}

// Resolve converts a Color to concrete RGB, using defaultFg/defaultBg for
// ColorDefault and the given palette for ColorNamed/ColorIndexed.
func Resolve(c Color, defaultFg, defaultBg [3]uint8, isForeground bool, palette *[256][3]uint8) (r, g, b uint8) {
	switch c.Kind {
	case ColorNamed, ColorIndexed:
		rgb := palette[c.Index]
		return rgb[0], rgb[1], rgb[2]
	case ColorTrueColor:
		return c.R, c.G, c.B
	default:
		if isForeground {
			return defaultFg[0], defaultFg[1], defaultFg[2]
		}
		return defaultBg[0], defaultBg[1], defaultBg[2]
	}
}
