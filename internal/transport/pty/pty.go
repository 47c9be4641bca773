// Package pty implements the local pseudoterminal transport.Channel,
// generalized from _examples/javanhut-RavenTerminal/shell/pty.go's
// PtySession: start a shell under github.com/creack/pty, then read/write/
// resize/close it. Where the teacher's Read is a thin unblocking wrapper
// around pty.Read, spec §4.6 asks for poll-driven reads with a deadline
// and a self-pipe wakeup, so that part is written fresh using
// golang.org/x/sys/unix (the POSIX poll surface the spec names directly).
package pty

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/dgterm/vtcore/internal/transport"
)

// Option configures a PTY at construction time.
type Option func(*PTY)

// WithLogger attaches a logger used for process-exit events.
func WithLogger(l zerolog.Logger) Option {
	return func(p *PTY) { p.log = l }
}

// WithEnv appends additional environment variables beyond the current
// process's environment.
func WithEnv(env []string) Option {
	return func(p *PTY) { p.extraEnv = env }
}

// WithDir sets the working directory of the spawned shell.
func WithDir(dir string) Option {
	return func(p *PTY) { p.dir = dir }
}

// PTY is a transport.Channel backed by a local pseudoterminal and the
// shell process attached to its slave side.
type PTY struct {
	shell string
	args  []string
	dir   string

	extraEnv []string
	log      zerolog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	master *os.File

	wakeupR *os.File
	wakeupW *os.File

	closed   chan struct{}
	closedMu sync.Once
}

var _ transport.Channel = (*PTY)(nil)

// New creates a PTY transport for the given shell command; it does not
// spawn the process until Start is called.
func New(shell string, args []string, opts ...Option) *PTY {
	p := &PTY{shell: shell, args: args, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// defaultRows/defaultCols seed the pty's initial winsize; transport.Channel's
// Start takes no geometry (spec §4.6), so the real page size arrives via
// the Resize call the session layer issues immediately after Start.
const defaultRows, defaultCols = 24, 80

// Start spawns the shell attached to a new pseudoterminal.
func (p *PTY) Start() error {
	cmd := exec.Command(p.shell, p.args...)
	cmd.Env = append(os.Environ(), p.extraEnv...)
	if p.dir != "" {
		cmd.Dir = p.dir
	}

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: defaultRows, Cols: defaultCols})
	if err != nil {
		return err
	}

	wr, ww, err := os.Pipe()
	if err != nil {
		master.Close()
		return err
	}

	p.mu.Lock()
	p.cmd = cmd
	p.master = master
	p.wakeupR = wr
	p.wakeupW = ww
	p.closed = make(chan struct{})
	p.mu.Unlock()

	go func() {
		err := cmd.Wait()
		p.log.Debug().Err(err).Msg("pty shell exited")
		p.mu.Lock()
		if p.closed != nil {
			close(p.closed)
		}
		p.mu.Unlock()
	}()

	return nil
}

// Read blocks until data is available on the master fd, the wakeup pipe
// fires, or timeout elapses (<=0 means block indefinitely), matching the
// poll-over-master-and-wakeup-fd design of spec §4.6.
func (p *PTY) Read(buf []byte, timeout time.Duration) transport.ReadResult {
	p.mu.Lock()
	master, wakeupR := p.master, p.wakeupR
	p.mu.Unlock()
	if master == nil {
		return transport.ReadResult{EOF: true}
	}

	masterFd := int(master.Fd())
	wakeupFd := int(wakeupR.Fd())

	timeoutMs := -1
	if timeout > 0 {
		timeoutMs = int(timeout / time.Millisecond)
	}

	for {
		fds := []unix.PollFd{
			{Fd: int32(masterFd), Events: unix.POLLIN},
			{Fd: int32(wakeupFd), Events: unix.POLLIN},
		}
		n, err := unix.Poll(fds, timeoutMs)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return transport.ReadResult{EOF: true}
		}
		if n == 0 {
			return transport.ReadResult{Again: true}
		}
		if fds[1].Revents&unix.POLLIN != 0 {
			drain := make([]byte, 64)
			unix.Read(wakeupFd, drain)
			return transport.ReadResult{Again: true}
		}
		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			nr, err := unix.Read(masterFd, buf)
			if nr <= 0 {
				if err == unix.EAGAIN {
					return transport.ReadResult{Again: true}
				}
				return transport.ReadResult{EOF: true}
			}
			return transport.ReadResult{Data: buf[:nr]}
		}
	}
}

// Write writes to the master side of the pty.
func (p *PTY) Write(data []byte) (int, bool, error) {
	p.mu.Lock()
	master := p.master
	p.mu.Unlock()
	if master == nil {
		return 0, false, io.ErrClosedPipe
	}
	n, err := master.Write(data)
	if errors.Is(err, unix.EAGAIN) {
		return n, true, nil
	}
	return n, false, err
}

// Resize issues the window-size ioctl for the given character-cell
// dimensions, carrying optional pixel dimensions when known.
func (p *PTY) Resize(rows, cols int, pixels *transport.PixelSize) error {
	p.mu.Lock()
	master := p.master
	p.mu.Unlock()
	if master == nil {
		return io.ErrClosedPipe
	}
	ws := &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}
	if pixels != nil {
		ws.X = uint16(pixels.Width)
		ws.Y = uint16(pixels.Height)
	}
	return pty.Setsize(master, ws)
}

// WakeupReader forces any blocked Read to return with Again set.
func (p *PTY) WakeupReader() {
	p.mu.Lock()
	w := p.wakeupW
	p.mu.Unlock()
	if w != nil {
		w.Write([]byte{0})
	}
}

// WaitForClosed blocks until the shell process has exited.
func (p *PTY) WaitForClosed() {
	p.mu.Lock()
	ch := p.closed
	p.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

// Close terminates the shell process and releases the pty and pipe fds.
func (p *PTY) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	var err error
	if p.master != nil {
		err = p.master.Close()
	}
	if p.wakeupR != nil {
		p.wakeupR.Close()
	}
	if p.wakeupW != nil {
		p.wakeupW.Close()
	}
	return err
}
