package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
default_profile: work
profiles:
  work:
    shell: /bin/bash
    scrollback_capacity: 5000
    reflow_on_resize: true
    frozen_modes:
      line_wrap: true
    permissions:
      capture_buffer: allow
      change_font: deny
      display_host_writable_status_line: ask
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	p, err := cfg.Profile("")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.Shell != "/bin/bash" {
		t.Errorf("shell = %q, want /bin/bash", p.Shell)
	}
	if p.ScrollbackCapacity != 5000 {
		t.Errorf("scrollback_capacity = %d, want 5000", p.ScrollbackCapacity)
	}
	if !p.FrozenModes["line_wrap"] {
		t.Error("expected frozen_modes.line_wrap")
	}
	if p.Permissions.CaptureBuffer != PolicyAllow {
		t.Errorf("capture_buffer = %q, want allow", p.Permissions.CaptureBuffer)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if _, err := cfg.Profile(""); err != nil {
		t.Fatalf("expected a usable default profile, got: %v", err)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestProfileValidateRejectsBothShellAndSSHHost(t *testing.T) {
	p := &Profile{Shell: "/bin/sh", SSHHost: &SSHHost{Host: "example.com"}}
	if err := p.validate(); err == nil {
		t.Fatal("expected error when both shell and ssh_host are set")
	}
}

func TestProfileValidateRejectsNeitherShellNorSSHHost(t *testing.T) {
	p := &Profile{}
	if err := p.validate(); err == nil {
		t.Fatal("expected error when neither shell nor ssh_host is set")
	}
}

func TestProfileValidateDefaultsSSHPort(t *testing.T) {
	p := &Profile{SSHHost: &SSHHost{Host: "example.com"}}
	if err := p.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.SSHHost.Port != 22 {
		t.Errorf("port = %d, want 22", p.SSHHost.Port)
	}
}

func TestProfileValidateRejectsUnknownFrozenMode(t *testing.T) {
	p := &Profile{Shell: "/bin/sh", FrozenModes: map[string]bool{"not_a_mode": true}}
	if err := p.validate(); err == nil {
		t.Fatal("expected error for unknown frozen mode")
	}
}

func TestConfigValidateRejectsMissingDefaultProfile(t *testing.T) {
	cfg := &Config{
		DefaultProfile: "missing",
		Profiles:       map[string]*Profile{"work": DefaultProfile()},
	}
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for default_profile with no matching entry")
	}
}
