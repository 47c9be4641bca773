package config

import (
	"fmt"

	"github.com/dgterm/vtcore/internal/screen"
)

// Policy is one of the three values spec §6.4 names for each gated
// capability: Allow, Deny, Ask.
type Policy string

const (
	PolicyAllow Policy = "allow"
	PolicyDeny  Policy = "deny"
	PolicyAsk   Policy = "ask"
)

func (p Policy) validate() error {
	switch p {
	case "", PolicyAllow, PolicyDeny, PolicyAsk:
		return nil
	default:
		return fmt.Errorf("invalid policy %q, want allow|deny|ask", p)
	}
}

// PermissionsConfig is the three capability gates spec §6.4 names:
// captureBuffer, changeFont, displayHostWritableStatusLine.
type PermissionsConfig struct {
	CaptureBuffer                 Policy `yaml:"capture_buffer"`
	ChangeFont                     Policy `yaml:"change_font"`
	DisplayHostWritableStatusLine Policy `yaml:"display_host_writable_status_line"`
}

func (c PermissionsConfig) validate() error {
	for _, p := range []Policy{c.CaptureBuffer, c.ChangeFont, c.DisplayHostWritableStatusLine} {
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c PermissionsConfig) get(capability string) Policy {
	switch capability {
	case "capture_buffer":
		return c.CaptureBuffer
	case "change_font":
		return c.ChangeFont
	case "display_host_writable_status_line":
		return c.DisplayHostWritableStatusLine
	default:
		return PolicyDeny
	}
}

// AskFunc is consulted for a capability whose policy is Ask. A core with
// no interactive surface (spec's headless parser/grid/vi layers) can
// leave this nil, in which case Ask behaves as Deny — the safe default
// per spec §7's "old configuration remains active" failure-closed spirit.
type AskFunc func(capability string) bool

// PermissionProvider implements screen.PermissionProvider from a
// PermissionsConfig, resolving Ask through an optional interactive
// callback.
type PermissionProvider struct {
	Config PermissionsConfig
	Ask    AskFunc
}

func (p PermissionProvider) RequestPermission(capability string) bool {
	switch p.Config.get(capability) {
	case PolicyAllow:
		return true
	case PolicyAsk:
		if p.Ask != nil {
			return p.Ask(capability)
		}
		return false
	default:
		return false
	}
}

var _ screen.PermissionProvider = PermissionProvider{}
