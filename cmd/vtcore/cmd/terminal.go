package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/dgterm/vtcore/internal/config"
	"github.com/dgterm/vtcore/internal/logging"
	"github.com/dgterm/vtcore/internal/session"
	"github.com/dgterm/vtcore/internal/transport"
)

// runTerminal is the shared raw-mode/resize/render loop both the "run"
// and "ssh" subcommands drive, grounded on
// dcosson-h2/internal/session/client's Run (term.GetSize, term.MakeRaw,
// SIGWINCH via a signal.Notify goroutine) plus its RenderScreen's
// save/repaint/restore-cursor shape.
func runTerminal(profile *config.Profile, channel transport.Channel) error {
	fd := int(os.Stdin.Fd())

	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return err
	}
	if rows <= 0 {
		rows = profile.InitialRows
	}
	if cols <= 0 {
		cols = profile.InitialCols
	}

	log := logging.New(logging.WithLevel(zerolog.WarnLevel))

	closed := make(chan struct{})
	opts, err := profile.SessionOptions(log, false, nil)
	if err != nil {
		return err
	}
	opts = append(opts, session.WithOnClosed(func(error) { close(closed) }))

	sess := session.New(channel, rows, cols, opts...)
	if err := sess.Start(rows, cols); err != nil {
		return err
	}
	defer sess.Close()

	restore, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, restore)

	r := newRenderer(os.Stdout, sess.Screen())
	r.full()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)
	go watchResize(sigCh, fd, sess, profile.ReflowOnResize)

	go pumpStdin(os.Stdin, sess)

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return nil
		case <-ticker.C:
			r.paintDirty()
		}
	}
}

// watchResize re-reads the terminal size on SIGWINCH and propagates it
// into the session, matching spec §6.4's "reflow" flag which is a
// per-call Resize argument rather than a constructor option.
func watchResize(sigCh <-chan os.Signal, fd int, sess *session.Session, reflow bool) {
	for range sigCh {
		cols, rows, err := term.GetSize(fd)
		if err != nil {
			continue
		}
		sess.Resize(rows, cols, reflow)
	}
}

// pumpStdin forwards raw keystrokes straight to the guest. Decoding them
// into structured input.Key/Modifiers events (for BindingTable dispatch)
// is a frontend concern outside this core's scope here: a real terminal
// already encodes arrows/function keys/mouse reports as the exact bytes
// the guest expects, so passthrough is correct for a plain TTY host.
func pumpStdin(r *os.File, sess *session.Session) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sess.Write(buf[:n])
		}
		if err != nil {
			return
		}
	}
}
