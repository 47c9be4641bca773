// Package ssh implements the SSH transport.Channel: a state machine
// reproduced state-for-state from original_source/src/vtpty/SshSession.cpp
// (spec §4.6), built on golang.org/x/crypto/ssh since no example repo in
// the pack vendors an SSH client. Host-key verification uses
// golang.org/x/crypto/ssh/knownhosts (OpenSSH known_hosts format); agent
// auth uses golang.org/x/crypto/ssh/agent.
package ssh

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/dgterm/vtcore/internal/transport"
)

// State is a step in the SSH connection state machine (spec §4.6).
type State int

const (
	StateInitial State = iota
	StateStarted
	StateConnect
	StateHandshake
	StateVerifyHostKey
	StateAuthenticateAgent
	StateAuthPrivateKeyStart
	StateAuthPrivateKeyRequest
	StateAuthPrivateKeyWaitForInput
	StateAuthPrivateKey
	StateAuthPasswordStart
	StateAuthPasswordWaitForInput
	StateAuthPassword
	StateOpenChannel
	StateRequestAuthAgent
	StateRequestPty
	StateSetEnv
	StateStartShell
	StateOperational
	StateResizeScreen
	StateFailure
	StateClosed
)

func (s State) String() string {
	names := [...]string{
		"Initial", "Started", "Connect", "Handshake", "VerifyHostKey",
		"AuthenticateAgent", "AuthPrivateKeyStart", "AuthPrivateKeyRequest",
		"AuthPrivateKeyWaitForInput", "AuthPrivateKey", "AuthPasswordStart",
		"AuthPasswordWaitForInput", "AuthPassword", "OpenChannel",
		"RequestAuthAgent", "RequestPty", "SetEnv", "StartShell",
		"Operational", "ResizeScreen", "Failure", "Closed",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}

// TransportError is a structured transport failure (spec §4.6/§7): a
// numeric code, a category, and a human message, the shape every
// libssh2-style error is surfaced as.
type TransportError struct {
	Code     int
	Category string
	Message  string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("[%s:%d] %s", e.Category, e.Code, e.Message)
}

// Config describes how to reach and authenticate to a host.
type Config struct {
	Host string
	Port int
	User string

	KnownHostsPath  string
	PrivateKeyPaths []string

	Env map[string]string

	Logger zerolog.Logger
}

// Session is a transport.Channel backed by an SSH connection and shell
// channel, implementing the state machine from spec §4.6.
type Session struct {
	cfg Config

	mu             sync.Mutex
	state          State
	client         *ssh.Client
	sshSession     *ssh.Session
	stdin          interface{ Write([]byte) (int, error) }
	agentWalkIndex int
	lastErr        *TransportError

	cond     *sync.Cond
	queue    [][]byte
	eof      bool
	wakeups  int
	closedCh chan struct{}

	passMu      sync.Mutex
	passBuf     []byte
	passResult  chan string
	waitingAuth bool

	closeOnce sync.Once
}

var _ transport.Channel = (*Session)(nil)

// New creates an SSH session transport for cfg.
func New(cfg Config) *Session {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	s := &Session{cfg: cfg, state: StateInitial, closedCh: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// State returns the session's current state-machine position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the structured error that drove the session into
// StateFailure, or nil.
func (s *Session) LastError() *TransportError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.cfg.Logger.Debug().Stringer("state", st).Msg("ssh session transition")
}

func (s *Session) fail(code int, category, message string) error {
	err := &TransportError{Code: code, Category: category, Message: message}
	s.mu.Lock()
	s.lastErr = err
	s.state = StateFailure
	s.mu.Unlock()
	s.cfg.Logger.Error().Err(err).Msg("ssh transport failure")
	s.injectLine(fmt.Sprintf("\r\n*** %s ***\r\n", err.Error()))
	s.closeDone()
	return err
}

func (s *Session) closeDone() {
	s.closeOnce.Do(func() { close(s.closedCh) })
}

// defaultRows/defaultCols seed the pty request RequestPty issues before
// the real page size arrives; transport.Channel's Start takes no
// geometry (spec §4.6), so the session layer's Resize call right after
// Start carries the actual dimensions via WindowChange.
const defaultRows, defaultCols = 24, 80

// Start resolves the host, connects, authenticates, opens a shell channel
// and transitions to Operational, matching spec §4.6's state sequence.
// It runs synchronously; session.Session.Start calls it on the caller's
// goroutine before starting its I/O thread.
func (s *Session) Start() error {
	s.setState(StateStarted)
	s.mu.Lock()
	s.agentWalkIndex = 0
	s.mu.Unlock()
	s.setState(StateConnect)

	addrs, err := net.LookupHost(s.cfg.Host)
	if err != nil || len(addrs) == 0 {
		addrs = []string{s.cfg.Host}
	}

	var conn net.Conn
	var dialErr error
	for _, addr := range addrs {
		conn, dialErr = net.DialTimeout("tcp", net.JoinHostPort(addr, strconv.Itoa(s.cfg.Port)), 10*time.Second)
		if dialErr == nil {
			break
		}
	}
	if conn == nil {
		return s.fail(1, "connect", dialErr.Error())
	}

	s.setState(StateHandshake)
	clientConfig := &ssh.ClientConfig{
		User:            s.cfg.User,
		Auth:            s.buildAuthMethods(),
		HostKeyCallback: s.hostKeyCallback(),
		Timeout:         15 * time.Second,
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port)), clientConfig)
	if err != nil {
		if s.state == StateFailure {
			return s.lastErr
		}
		return s.fail(2, "auth", err.Error())
	}
	s.client = ssh.NewClient(sshConn, chans, reqs)

	s.setState(StateOpenChannel)
	sess, err := s.client.NewSession()
	if err != nil {
		return s.fail(3, "channel", err.Error())
	}
	s.sshSession = sess

	s.setState(StateRequestAuthAgent)
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if ac, err := net.Dial("unix", sock); err == nil {
			agentClient := agent.NewClient(ac)
			agent.ForwardToAgent(s.client, agentClient)
			agent.RequestAgentForwarding(sess)
		}
	}

	s.setState(StateRequestPty)
	if err := sess.RequestPty("xterm-256color", defaultRows, defaultCols, ssh.TerminalModes{}); err != nil {
		return s.fail(4, "pty", err.Error())
	}

	s.setState(StateSetEnv)
	for k, v := range s.cfg.Env {
		sess.Setenv(k, v)
	}

	stdin, err := sess.StdinPipe()
	if err != nil {
		return s.fail(5, "shell", err.Error())
	}
	s.stdin = stdin
	stdout, err := sess.StdoutPipe()
	if err != nil {
		return s.fail(5, "shell", err.Error())
	}

	s.setState(StateStartShell)
	if err := sess.Shell(); err != nil {
		return s.fail(6, "shell", err.Error())
	}

	go s.pump(stdout)
	go s.awaitExit()

	s.setState(StateOperational)
	return nil
}

func (s *Session) pump(r interface{ Read([]byte) (int, error) }) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.mu.Lock()
			s.queue = append(s.queue, chunk)
			s.cond.Broadcast()
			s.mu.Unlock()
		}
		if err != nil {
			s.mu.Lock()
			s.eof = true
			s.cond.Broadcast()
			s.mu.Unlock()
			return
		}
	}
}

func (s *Session) awaitExit() {
	if s.sshSession != nil {
		s.sshSession.Wait()
	}
	s.mu.Lock()
	if s.state != StateFailure {
		s.state = StateClosed
	}
	s.mu.Unlock()
	s.closeDone()
}

func (s *Session) injectLine(text string) {
	s.mu.Lock()
	s.queue = append(s.queue, []byte(text))
	s.cond.Broadcast()
	s.mu.Unlock()
}

// buildAuthMethods assembles the agent/private-key/password auth chain;
// agent identities are enumerated in order with a remembered walk index
// (spec §4.6, SPEC_FULL.md §4), private-key and password auth prompt
// in-band via promptSecret.
func (s *Session) buildAuthMethods() []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	s.setState(StateAuthenticateAgent)
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			ac := agent.NewClient(conn)
			if signers, err := ac.Signers(); err == nil && len(signers) > 0 {
				cb := func() ([]ssh.Signer, error) {
					s.mu.Lock()
					idx := s.agentWalkIndex
					if idx < len(signers) {
						s.agentWalkIndex++
					}
					s.mu.Unlock()
					if idx >= len(signers) {
						return nil, nil
					}
					return []ssh.Signer{signers[idx]}, nil
				}
				methods = append(methods, ssh.RetryableAuthMethod(ssh.PublicKeysCallback(cb), len(signers)))
			}
		}
	}

	for _, path := range s.cfg.PrivateKeyPaths {
		path := path
		methods = append(methods, ssh.PublicKeysCallback(func() ([]ssh.Signer, error) {
			signer, err := s.loadPrivateKey(path)
			if err != nil {
				return nil, err
			}
			return []ssh.Signer{signer}, nil
		}))
	}

	methods = append(methods, ssh.RetryableAuthMethod(ssh.PasswordCallback(func() (string, error) {
		s.setState(StateAuthPasswordStart)
		pw, err := s.promptSecret("Password: ", StateAuthPasswordWaitForInput)
		if err != nil {
			return "", err
		}
		s.setState(StateAuthPassword)
		return pw, nil
	}), 3))

	return methods
}

// loadPrivateKey parses keyPath, prompting in-band for a passphrase (up to
// three attempts) if the key is encrypted, per spec §4.6.
func (s *Session) loadPrivateKey(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err == nil {
		return signer, nil
	}
	var passphraseErr *ssh.PassphraseMissingError
	if !errors.As(err, &passphraseErr) {
		return nil, err
	}

	s.setState(StateAuthPrivateKeyStart)
	for attempt := 0; attempt < 3; attempt++ {
		s.setState(StateAuthPrivateKeyRequest)
		pass, err := s.promptSecret(fmt.Sprintf("Passphrase for %s: ", path), StateAuthPrivateKeyWaitForInput)
		if err != nil {
			return nil, err
		}
		signer, err = ssh.ParsePrivateKeyWithPassphrase(data, []byte(pass))
		if err == nil {
			s.setState(StateAuthPrivateKey)
			return signer, nil
		}
	}
	return nil, errors.New("too many passphrase attempts")
}

// promptSecret injects a UI-facing prompt into the read queue, enters st,
// and blocks until Write delivers an Enter-terminated line (handling
// Backspace), returning the collected characters.
func (s *Session) promptSecret(prompt string, st State) (string, error) {
	s.injectLine(prompt)

	s.passMu.Lock()
	s.passBuf = s.passBuf[:0]
	s.passResult = make(chan string, 1)
	s.waitingAuth = true
	s.passMu.Unlock()

	s.setState(st)

	select {
	case v := <-s.passResult:
		return v, nil
	case <-s.closedCh:
		return "", errors.New("session closed while awaiting input")
	}
}

// hostKeyCallback verifies against the configured known_hosts file,
// appending unknown hosts and failing on key mismatch (spec §4.6).
func (s *Session) hostKeyCallback() ssh.HostKeyCallback {
	path := s.cfg.KnownHostsPath
	cb, err := knownhosts.New(path)
	if err != nil {
		cb = func(hostname string, remote net.Addr, key ssh.PublicKey) error { return err }
	}
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		s.setState(StateVerifyHostKey)
		err := cb(hostname, remote, key)
		if err == nil {
			return nil
		}
		var keyErr *knownhosts.KeyError
		if errors.As(err, &keyErr) && len(keyErr.Want) == 0 {
			return s.appendKnownHost(path, hostname, key)
		}
		return s.fail(10, "hostkey", err.Error())
	}
}

func (s *Session) appendKnownHost(path, hostname string, key ssh.PublicKey) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	line := knownhosts.Line([]string{hostname}, key)
	_, err = f.WriteString(line + "\n")
	return err
}

// Read pops queued data (from the channel pump or injected prompts) or
// blocks until some arrives, timeout elapses, or WakeupReader fires.
func (s *Session) Read(buf []byte, timeout time.Duration) transport.ReadResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
		timer := time.AfterFunc(timeout, func() {
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		})
		defer timer.Stop()
	}

	for {
		if len(s.queue) > 0 {
			chunk := s.queue[0]
			n := copy(buf, chunk)
			if n < len(chunk) {
				s.queue[0] = chunk[n:]
			} else {
				s.queue = s.queue[1:]
			}
			return transport.ReadResult{Data: buf[:n]}
		}
		if s.wakeups > 0 {
			s.wakeups--
			return transport.ReadResult{Again: true}
		}
		if s.eof {
			return transport.ReadResult{EOF: true}
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return transport.ReadResult{Again: true}
		}
		s.cond.Wait()
	}
}

// Write feeds bytes to the passphrase/password prompt while awaiting
// input, or to the remote shell's stdin once Operational.
func (s *Session) Write(data []byte) (int, bool, error) {
	s.passMu.Lock()
	waiting := s.waitingAuth
	s.passMu.Unlock()

	if waiting {
		s.consumeAuthInput(data)
		return len(data), false, nil
	}

	s.mu.Lock()
	stdin := s.stdin
	s.mu.Unlock()
	if stdin == nil {
		return 0, false, errors.New("session not operational")
	}
	n, err := stdin.Write(data)
	return n, false, err
}

func (s *Session) consumeAuthInput(data []byte) {
	for _, b := range data {
		switch b {
		case '\r', '\n':
			s.passMu.Lock()
			result := string(s.passBuf)
			s.passBuf = nil
			s.waitingAuth = false
			ch := s.passResult
			s.passMu.Unlock()
			if ch != nil {
				ch <- result
			}
		case 0x7f, 0x08: // Backspace
			s.passMu.Lock()
			if n := len(s.passBuf); n > 0 {
				s.passBuf = s.passBuf[:n-1]
			}
			s.passMu.Unlock()
		default:
			s.passMu.Lock()
			s.passBuf = append(s.passBuf, b)
			s.passMu.Unlock()
		}
	}
}

// Resize sends a pty-req resize message for the new character-cell size.
func (s *Session) Resize(rows, cols int, _ *transport.PixelSize) error {
	s.mu.Lock()
	sess := s.sshSession
	s.mu.Unlock()
	if sess == nil {
		return errors.New("session not started")
	}
	s.setState(StateResizeScreen)
	err := sess.WindowChange(rows, cols)
	s.setState(StateOperational)
	return err
}

// WakeupReader forces a blocked Read to return with Again set.
func (s *Session) WakeupReader() {
	s.mu.Lock()
	s.wakeups++
	s.cond.Broadcast()
	s.mu.Unlock()
}

// WaitForClosed blocks until the remote shell/channel has exited.
func (s *Session) WaitForClosed() {
	<-s.closedCh
}

// Close terminates the SSH session and underlying connection.
func (s *Session) Close() error {
	s.mu.Lock()
	sess, client := s.sshSession, s.client
	if s.state != StateClosed && s.state != StateFailure {
		s.state = StateClosed
	}
	s.mu.Unlock()
	s.closeDone()
	if sess != nil {
		sess.Close()
	}
	if client != nil {
		return client.Close()
	}
	return nil
}
