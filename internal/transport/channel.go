// Package transport defines the byte-channel abstraction that the session
// layer reads from and writes to, independent of whether the other end is
// a local PTY or an SSH session (spec §4.6). Concrete transports live in
// the pty and ssh subpackages.
package transport

import "time"

// ReadResult is the outcome of a single Read call: either some bytes, EOF,
// or "try again" when the deadline elapsed or a concurrent WakeupReader
// fired with nothing to deliver.
type ReadResult struct {
	Data  []byte
	EOF   bool
	Again bool
}

// PixelSize carries the optional pixel dimensions that accompany a
// character-cell resize (DECSLPP / WINMANIP pixel-size variants).
type PixelSize struct {
	Width  int
	Height int
}

// Channel is the transport-agnostic byte-channel contract from spec §4.6.
// Read is safe to call concurrently with WakeupReader: a blocked Read must
// return (with Again set) as soon as WakeupReader is invoked.
type Channel interface {
	Start() error
	Read(buf []byte, timeout time.Duration) ReadResult
	Write(data []byte) (n int, again bool, err error)
	Resize(rows, cols int, pixels *PixelSize) error
	Close() error
	WaitForClosed()
	WakeupReader()
}
