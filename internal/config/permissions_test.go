package config

import "testing"

func TestPolicyValidateAcceptsKnownValues(t *testing.T) {
	for _, p := range []Policy{PolicyAllow, PolicyDeny, PolicyAsk, ""} {
		if err := p.validate(); err != nil {
			t.Errorf("validate(%q): %v", p, err)
		}
	}
}

func TestPolicyValidateRejectsUnknownValue(t *testing.T) {
	if err := Policy("sometimes").validate(); err == nil {
		t.Fatal("expected error for unknown policy value")
	}
}

func TestPermissionsConfigGetUnknownCapabilityDefaultsDeny(t *testing.T) {
	pc := PermissionsConfig{CaptureBuffer: PolicyAllow}
	if got := pc.get("not_a_real_capability"); got != PolicyDeny {
		t.Errorf("get(unknown) = %q, want deny", got)
	}
}

func TestPermissionsConfigGetKnownCapabilities(t *testing.T) {
	pc := PermissionsConfig{
		CaptureBuffer:                 PolicyAllow,
		ChangeFont:                    PolicyDeny,
		DisplayHostWritableStatusLine: PolicyAsk,
	}
	if got := pc.get("capture_buffer"); got != PolicyAllow {
		t.Errorf("capture_buffer = %q", got)
	}
	if got := pc.get("change_font"); got != PolicyDeny {
		t.Errorf("change_font = %q", got)
	}
	if got := pc.get("display_host_writable_status_line"); got != PolicyAsk {
		t.Errorf("display_host_writable_status_line = %q", got)
	}
}

func TestPermissionProviderAllowAndDeny(t *testing.T) {
	pp := PermissionProvider{Config: PermissionsConfig{CaptureBuffer: PolicyAllow, ChangeFont: PolicyDeny}}
	if !pp.RequestPermission("capture_buffer") {
		t.Error("expected capture_buffer to be allowed")
	}
	if pp.RequestPermission("change_font") {
		t.Error("expected change_font to be denied")
	}
}

func TestPermissionProviderAskWithoutCallbackDefaultsDeny(t *testing.T) {
	pp := PermissionProvider{Config: PermissionsConfig{CaptureBuffer: PolicyAsk}}
	if pp.RequestPermission("capture_buffer") {
		t.Error("expected ask-with-nil-callback to deny")
	}
}

func TestPermissionProviderAskDelegatesToCallback(t *testing.T) {
	var asked string
	pp := PermissionProvider{
		Config: PermissionsConfig{CaptureBuffer: PolicyAsk},
		Ask: func(capability string) bool {
			asked = capability
			return true
		},
	}
	if !pp.RequestPermission("capture_buffer") {
		t.Error("expected Ask callback result (true) to be honored")
	}
	if asked != "capture_buffer" {
		t.Errorf("Ask called with %q, want capture_buffer", asked)
	}
}
