package vtparse

import "testing"

type recordingSink struct {
	prints  []rune
	execs   []byte
	csis    []csiCall
	escapes []escCall
	oscs    [][][]byte
	dcs     []dcsCall
}

type csiCall struct {
	params        [][]int
	intermediates []byte
	private       byte
	final         byte
}

type escCall struct {
	intermediates []byte
	final         byte
}

type dcsCall struct {
	params        [][]int
	intermediates []byte
	final         byte
	data          []byte
}

func (r *recordingSink) Print(c rune) { r.prints = append(r.prints, c) }
func (r *recordingSink) Execute(b byte) { r.execs = append(r.execs, b) }
func (r *recordingSink) CSI(params [][]int, intermediates []byte, private byte, final byte) {
	r.csis = append(r.csis, csiCall{params, intermediates, private, final})
}
func (r *recordingSink) Escape(intermediates []byte, final byte) {
	r.escapes = append(r.escapes, escCall{intermediates, final})
}
func (r *recordingSink) OSC(fields [][]byte) { r.oscs = append(r.oscs, fields) }
func (r *recordingSink) DCS(params [][]int, intermediates []byte, final byte, data []byte) {
	r.dcs = append(r.dcs, dcsCall{params, intermediates, final, append([]byte(nil), data...)})
}
func (r *recordingSink) APC(data []byte) {}
func (r *recordingSink) PM(data []byte)  {}
func (r *recordingSink) SOS(data []byte) {}

func TestPrintPlainASCII(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("hi"))
	if len(sink.prints) != 2 || sink.prints[0] != 'h' || sink.prints[1] != 'i' {
		t.Fatalf("prints = %v", sink.prints)
	}
}

func TestPrintUTF8MultiByte(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("é")) // 2-byte UTF-8
	if len(sink.prints) != 1 || sink.prints[0] != 'é' {
		t.Fatalf("prints = %v", sink.prints)
	}
}

func TestPrintUTF8SplitAcrossFeeds(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	b := []byte("é")
	p.Feed(b[:1])
	p.Feed(b[1:])
	if len(sink.prints) != 1 || sink.prints[0] != 'é' {
		t.Fatalf("prints = %v (split feed should still decode)", sink.prints)
	}
}

func TestExecuteControlCode(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("\r\n"))
	if len(sink.execs) != 2 || sink.execs[0] != '\r' || sink.execs[1] != '\n' {
		t.Fatalf("execs = %v", sink.execs)
	}
}

func TestCSIWithParamsAndPrivate(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("\x1b[?1049h"))
	if len(sink.csis) != 1 {
		t.Fatalf("csis = %v", sink.csis)
	}
	c := sink.csis[0]
	if c.private != '?' || c.final != 'h' || len(c.params) != 1 || c.params[0][0] != 1049 {
		t.Fatalf("csi = %+v", c)
	}
}

func TestCSIMultipleParams(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("\x1b[1;31m"))
	c := sink.csis[0]
	if len(c.params) != 2 || c.params[0][0] != 1 || c.params[1][0] != 31 || c.final != 'm' {
		t.Fatalf("csi = %+v", c)
	}
}

func TestCSIDefaultParamWhenOmitted(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("\x1b[m"))
	c := sink.csis[0]
	if len(c.params) != 1 || c.params[0][0] != 0 {
		t.Fatalf("csi = %+v want single zero param", c)
	}
}

func TestEscapeSequence(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("\x1bc"))
	if len(sink.escapes) != 1 || sink.escapes[0].final != 'c' {
		t.Fatalf("escapes = %v", sink.escapes)
	}
}

func TestOSCTerminatedByBEL(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("\x1b]0;title\x07"))
	if len(sink.oscs) != 1 || string(sink.oscs[0][0]) != "0" || string(sink.oscs[0][1]) != "title" {
		t.Fatalf("oscs = %v", sink.oscs)
	}
}

func TestOSCTerminatedByST(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("\x1b]0;title\x1b\\"))
	if len(sink.oscs) != 1 || string(sink.oscs[0][1]) != "title" {
		t.Fatalf("oscs = %v", sink.oscs)
	}
}

func TestDCSPassthrough(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("\x1bPq#0;2;0;0;0#0!5~-\x1b\\"))
	if len(sink.dcs) != 1 || sink.dcs[0].final != 'q' {
		t.Fatalf("dcs = %v", sink.dcs)
	}
}

func TestGroundResumesAfterSequence(t *testing.T) {
	sink := &recordingSink{}
	p := NewParser(sink)
	p.Feed([]byte("a\x1b[31mb"))
	if len(sink.prints) != 2 || sink.prints[0] != 'a' || sink.prints[1] != 'b' {
		t.Fatalf("prints = %v", sink.prints)
	}
}
