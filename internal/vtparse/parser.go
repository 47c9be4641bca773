// Package vtparse implements the classic Paul Williams / DEC ANSI state
// machine for parsing VT100-and-later escape sequences from a raw byte
// stream, feeding fully-assembled events to a Dispatcher.
//
// This is original code: the teacher this module is otherwise modeled on
// delegates parsing to an external library; the spec this parser
// implements calls for it to be a first-class, in-repo component instead.
package vtparse

import "unicode/utf8"

type state uint8

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateDcsEscaping
	stateOscString
	stateOscEscaping
	stateSosPmApcString
	stateSosPmApcEscaping
)

const maxParams = 32
const maxIntermediates = 8

// Parser holds the state machine's transient state between Feed calls, so
// a multi-byte sequence can be split arbitrarily across writes (as PTY
// reads always do in practice).
type Parser struct {
	state state

	params     [][]int // each element is a ':'-separated sub-parameter group
	curGroup   []int
	curNum     int
	numStarted bool

	intermediates []byte
	private       byte

	oscField  []byte
	oscFields [][]byte

	dcsData  []byte
	dcsFinal byte

	// utf8 decode buffer for Ground-state printable runs.
	utfBuf [4]byte
	utfLen int
	utfNeed int

	sink Dispatcher
}

// NewParser creates a Parser that dispatches parsed events to sink.
func NewParser(sink Dispatcher) *Parser {
	p := &Parser{sink: sink}
	p.reset()
	return p
}

func (p *Parser) reset() {
	p.state = stateGround
	p.params = p.params[:0]
	p.curGroup = p.curGroup[:0]
	p.curNum = 0
	p.numStarted = false
	p.intermediates = p.intermediates[:0]
	p.private = 0
	p.oscField = p.oscField[:0]
	p.oscFields = p.oscFields[:0]
	p.dcsData = p.dcsData[:0]
}

// Feed processes a chunk of raw bytes, dispatching events as sequences
// complete. It is safe to call repeatedly with partial sequences.
func (p *Parser) Feed(data []byte) {
	for _, b := range data {
		p.step(b)
	}
}

func (p *Parser) step(b byte) {
	// C1 controls (0x80-0x9f) behave as their ESC-prefixed 7-bit
	// equivalents in 8-bit environments; we treat the stream as 7-bit
	// clean (UTF-8) and only special-case DEL/C0 here, matching how real
	// terminals that speak UTF-8 operate.
	switch p.state {
	case stateGround:
		p.stepGround(b)
	case stateEscape:
		p.stepEscape(b)
	case stateEscapeIntermediate:
		p.stepEscapeIntermediate(b)
	case stateCsiEntry:
		p.stepCsiEntry(b)
	case stateCsiParam:
		p.stepCsiParam(b)
	case stateCsiIntermediate:
		p.stepCsiIntermediate(b)
	case stateCsiIgnore:
		p.stepCsiIgnore(b)
	case stateDcsEntry:
		p.stepDcsEntry(b)
	case stateDcsParam:
		p.stepDcsParam(b)
	case stateDcsIntermediate:
		p.stepDcsIntermediate(b)
	case stateDcsPassthrough:
		p.stepDcsPassthrough(b)
	case stateDcsIgnore:
		p.stepDcsIgnore(b)
	case stateDcsEscaping:
		p.stepDcsEscaping(b)
	case stateOscString:
		p.stepOscString(b)
	case stateOscEscaping:
		p.stepOscEscaping(b)
	case stateSosPmApcString:
		p.stepSosPmApcString(b)
	case stateSosPmApcEscaping:
		p.stepSosPmApcEscaping(b)
	}
}

func isExecutable(b byte) bool { return b <= 0x1f && b != 0x1b }

func (p *Parser) stepGround(b byte) {
	switch {
	case b == 0x1b:
		p.enterEscape()
	case isExecutable(b):
		p.sink.Execute(b)
	case b == 0x7f:
		// DEL: ignored at Ground per the classic table.
	case b >= 0x20:
		p.feedUTF8(b)
	}
}

// feedUTF8 accumulates UTF-8 continuation bytes and dispatches Print once
// a full rune is assembled. Bytes below 0x80 are single-byte runes.
func (p *Parser) feedUTF8(b byte) {
	if p.utfNeed == 0 {
		n := utf8SeqLen(b)
		if n <= 1 {
			p.sink.Print(rune(b))
			return
		}
		p.utfBuf[0] = b
		p.utfLen = 1
		p.utfNeed = n
		return
	}
	p.utfBuf[p.utfLen] = b
	p.utfLen++
	if p.utfLen == p.utfNeed {
		r, size := utf8.DecodeRune(p.utfBuf[:p.utfLen])
		if size == 0 {
			r = utf8.RuneError
		}
		p.sink.Print(r)
		p.utfLen, p.utfNeed = 0, 0
	}
}

func utf8SeqLen(b byte) int {
	switch {
	case b&0x80 == 0:
		return 1
	case b&0xe0 == 0xc0:
		return 2
	case b&0xf0 == 0xe0:
		return 3
	case b&0xf8 == 0xf0:
		return 4
	default:
		return 1
	}
}

func (p *Parser) enterEscape() {
	p.state = stateEscape
	p.intermediates = p.intermediates[:0]
	p.private = 0
}

func (p *Parser) stepEscape(b byte) {
	switch {
	case isExecutable(b):
		p.sink.Execute(b)
	case b == '[':
		p.enterCsiEntry()
	case b == 'P':
		p.enterDcsEntry()
	case b == ']':
		p.enterOsc()
	case b == 'X' || b == '^' || b == '_':
		p.state = stateSosPmApcString
		p.private = b
		p.oscFields = p.oscFields[:0]
		p.oscField = p.oscField[:0]
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = stateEscapeIntermediate
	case b >= 0x30 && b <= 0x7e:
		p.sink.Escape(p.intermediates, b)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) stepEscapeIntermediate(b byte) {
	switch {
	case isExecutable(b):
		p.sink.Execute(b)
	case b >= 0x20 && b <= 0x2f:
		if len(p.intermediates) < maxIntermediates {
			p.intermediates = append(p.intermediates, b)
		}
	case b >= 0x30 && b <= 0x7e:
		p.sink.Escape(p.intermediates, b)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) enterCsiEntry() {
	p.state = stateCsiEntry
	p.params = p.params[:0]
	p.curGroup = p.curGroup[:0]
	p.curNum = 0
	p.numStarted = false
	p.intermediates = p.intermediates[:0]
	p.private = 0
}

func (p *Parser) stepCsiEntry(b byte) {
	switch {
	case isExecutable(b):
		p.sink.Execute(b)
	case b == '?' || b == '>' || b == '=' || b == '<':
		p.private = b
		p.state = stateCsiParam
	case b >= '0' && b <= '9':
		p.curNum = int(b - '0')
		p.numStarted = true
		p.state = stateCsiParam
	case b == ':':
		p.curGroup = append(p.curGroup, p.curNum)
		p.curNum = 0
		p.numStarted = false
		p.state = stateCsiParam
	case b == ';':
		p.finishParam()
		p.state = stateCsiParam
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.finishCsi(b)
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) stepCsiParam(b byte) {
	switch {
	case isExecutable(b):
		p.sink.Execute(b)
	case b >= '0' && b <= '9':
		p.curNum = p.curNum*10 + int(b-'0')
		p.numStarted = true
	case b == ':':
		p.curGroup = append(p.curGroup, p.curNum)
		p.curNum = 0
		p.numStarted = false
	case b == ';':
		p.finishParam()
	case b == '<' || b == '=' || b == '>' || b == '?':
		p.state = stateCsiIgnore
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.finishCsi(b)
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) stepCsiIntermediate(b byte) {
	switch {
	case isExecutable(b):
		p.sink.Execute(b)
	case b >= 0x20 && b <= 0x2f:
		if len(p.intermediates) < maxIntermediates {
			p.intermediates = append(p.intermediates, b)
		}
	case b >= 0x40 && b <= 0x7e:
		p.finishCsi(b)
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) stepCsiIgnore(b byte) {
	switch {
	case isExecutable(b):
		p.sink.Execute(b)
	case b >= 0x40 && b <= 0x7e:
		p.state = stateGround
	}
}

func (p *Parser) finishParam() {
	p.curGroup = append(p.curGroup, p.curNum)
	if len(p.params) < maxParams {
		p.params = append(p.params, p.curGroup)
	}
	p.curGroup = nil
	p.curNum = 0
	p.numStarted = false
}

func (p *Parser) finishCsi(final byte) {
	p.finishParam()
	p.sink.CSI(p.params, p.intermediates, p.private, final)
	p.state = stateGround
}

func (p *Parser) enterDcsEntry() {
	p.state = stateDcsEntry
	p.params = p.params[:0]
	p.curGroup = p.curGroup[:0]
	p.curNum = 0
	p.numStarted = false
	p.intermediates = p.intermediates[:0]
	p.private = 0
	p.dcsData = p.dcsData[:0]
}

func (p *Parser) stepDcsEntry(b byte) {
	switch {
	case b == '?' || b == '>' || b == '=':
		p.private = b
		p.state = stateDcsParam
	case b >= '0' && b <= '9':
		p.curNum = int(b - '0')
		p.numStarted = true
		p.state = stateDcsParam
	case b == ';':
		p.finishParam()
		p.state = stateDcsParam
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.enterDcsPassthrough(b)
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) stepDcsParam(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.curNum = p.curNum*10 + int(b-'0')
		p.numStarted = true
	case b == ':':
		p.curGroup = append(p.curGroup, p.curNum)
		p.curNum = 0
		p.numStarted = false
	case b == ';':
		p.finishParam()
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.enterDcsPassthrough(b)
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) stepDcsIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		if len(p.intermediates) < maxIntermediates {
			p.intermediates = append(p.intermediates, b)
		}
	case b >= 0x40 && b <= 0x7e:
		p.enterDcsPassthrough(b)
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) enterDcsPassthrough(final byte) {
	p.finishParam()
	p.dcsFinal = final
	p.dcsData = p.dcsData[:0]
	p.state = stateDcsPassthrough
}

func (p *Parser) stepDcsPassthrough(b byte) {
	if b == 0x1b {
		p.state = stateDcsEscaping
		return
	}
	p.dcsData = append(p.dcsData, b)
}

func (p *Parser) stepDcsIgnore(b byte) {
	if b == 0x1b {
		p.state = stateDcsEscaping
	}
}

// stepDcsEscaping decides whether an ESC seen inside DCS passthrough data
// is the start of the String Terminator (ESC \) or an embedded escape that
// aborts the sequence (real terminals treat any other final byte as abort
// back to Ground, since a DCS body should only ever end in ST).
func (p *Parser) stepDcsEscaping(b byte) {
	if b == '\\' {
		p.sink.DCS(p.params, p.intermediates, p.dcsFinal, p.dcsData)
		p.state = stateGround
		return
	}
	// Not a terminator: treat the escape as starting a fresh sequence.
	p.state = stateGround
	p.stepGround(0x1b)
	p.step(b)
}

func (p *Parser) enterOsc() {
	p.state = stateOscString
	p.oscFields = p.oscFields[:0]
	p.oscField = p.oscField[:0]
}

func (p *Parser) stepOscString(b byte) {
	switch b {
	case 0x07: // BEL also terminates OSC, as most real terminals accept.
		p.finishOscField()
		p.sink.OSC(p.oscFields)
		p.state = stateGround
	case 0x1b:
		p.state = stateOscEscaping
	case ';':
		p.finishOscField()
	default:
		if b >= 0x20 {
			p.oscField = append(p.oscField, b)
		}
	}
}

func (p *Parser) stepOscEscaping(b byte) {
	if b == '\\' {
		p.finishOscField()
		p.sink.OSC(p.oscFields)
		p.state = stateGround
		return
	}
	p.state = stateGround
	p.stepGround(0x1b)
	p.step(b)
}

func (p *Parser) finishOscField() {
	p.oscFields = append(p.oscFields, p.oscField)
	p.oscField = nil
}

func (p *Parser) stepSosPmApcString(b byte) {
	switch b {
	case 0x1b:
		p.state = stateSosPmApcEscaping
	default:
		if b >= 0x20 {
			p.oscField = append(p.oscField, b)
		}
	}
}

func (p *Parser) stepSosPmApcEscaping(b byte) {
	if b == '\\' {
		data := p.oscField
		p.oscField = nil
		// The introducer byte (X/^/_) determines which sink method to
		// call; stashed in p.private when entering this family.
		switch p.private {
		case 'X':
			p.sink.SOS(data)
		case '^':
			p.sink.PM(data)
		default:
			p.sink.APC(data)
		}
		p.state = stateGround
		return
	}
	p.state = stateGround
	p.stepGround(0x1b)
	p.step(b)
}
