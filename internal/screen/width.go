package screen

import "github.com/unilibs/uniwidth"

// RuneWidth returns the number of terminal columns a rune occupies: 0 for
// combining marks and most control characters, 1 for ordinary glyphs, 2 for
// East Asian wide/fullwidth glyphs.
func RuneWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// StringWidth returns the total column width of s.
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
