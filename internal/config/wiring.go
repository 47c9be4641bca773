package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dgterm/vtcore/internal/session"
	"github.com/dgterm/vtcore/internal/transport"
	"github.com/dgterm/vtcore/internal/transport/pty"
	"github.com/dgterm/vtcore/internal/transport/ssh"
)

// NewChannel builds the transport.Channel a Profile names: a local PTY
// running Shell, or an SSH session to SSHHost. Exactly one is set
// (enforced by Profile.validate).
func NewChannel(p *Profile) (transport.Channel, error) {
	switch {
	case p.SSHHost != nil:
		return ssh.New(ssh.Config{
			Host:            p.SSHHost.Host,
			Port:            p.SSHHost.Port,
			User:            p.SSHHost.User,
			KnownHostsPath:  p.SSHHost.KnownHostsPath,
			PrivateKeyPaths: p.SSHHost.PrivateKeyPaths,
		}), nil
	case p.Shell != "":
		return pty.New(p.Shell, p.Args), nil
	default:
		return nil, fmt.Errorf("profile has neither shell nor ssh_host set")
	}
}

// SessionOptions translates a Profile into the session.Option set
// cmd/vtcore passes to session.New: scrollback capacity, palette and
// permission policy all come straight from config; bell/title/clipboard
// providers are the caller's own desktop-facing implementations (this
// core only supplies what the config file parameterizes) and are
// appended by the caller alongside these. ReflowOnResize is not an
// Option: it parameterizes the reflow argument the caller passes to
// Session.Resize on every resize event, since spec §6.4 ties it to the
// resize call itself rather than to construction.
func (p *Profile) SessionOptions(log zerolog.Logger, dark bool, ask AskFunc) ([]session.Option, error) {
	palette, err := p.ResolveForDark(dark)
	if err != nil {
		return nil, fmt.Errorf("resolve palette: %w", err)
	}
	return []session.Option{
		session.WithLogger(log),
		session.WithScrollbackCapacity(p.ScrollbackCapacity),
		session.WithPalette(palette),
		session.WithPermission(PermissionProvider{Config: p.Permissions, Ask: ask}),
	}, nil
}
