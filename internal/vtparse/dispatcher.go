package vtparse

// Dispatcher receives fully-parsed VT events from Parser.Feed. One
// implementation lives in package screen (Screen implements Dispatcher by
// mutating its grid/cursor/mode state); tests may supply a recording
// Dispatcher to assert on the exact sequence of calls a given input
// produces.
type Dispatcher interface {
	// Print handles a single printable codepoint (Ground state, UTF-8
	// decoded already).
	Print(r rune)

	// Execute handles a C0 control code that isn't part of an
	// escape/CSI/DCS/OSC sequence (e.g. BS, LF, CR, BEL). Bytes
	// 0x80-0x9f are decoded as UTF-8, never executed as C1 controls.
	Execute(b byte)

	// CSI handles a complete CSI sequence: parameters, any ':'-separated
	// sub-parameters, intermediates, and the final byte. private is the
	// leader byte ('?', '>', '=', etc.) or 0 if none.
	CSI(params [][]int, intermediates []byte, private byte, final byte)

	// Escape handles a complete non-CSI/DCS escape sequence (ESC followed
	// by intermediates and a final byte, e.g. ESC 7, ESC =, ESC c).
	Escape(intermediates []byte, final byte)

	// OSC handles a complete OSC string: semicolon-separated fields as
	// raw bytes (the handler decides which fields are numeric).
	OSC(fields [][]byte)

	// DCS handles a complete DCS sequence: parameters, intermediates, the
	// final byte that starts the passthrough data, and the passthrough
	// payload itself (e.g. Sixel pixel data, DECRQSS query string).
	DCS(params [][]int, intermediates []byte, final byte, data []byte)

	// APC, PM, SOS handle Application Program Command, Privacy Message,
	// and Start-of-String sequences as raw payload bytes.
	APC(data []byte)
	PM(data []byte)
	SOS(data []byte)
}
