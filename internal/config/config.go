// Package config loads the surface spec §6.4 names the core as requiring
// from its config collaborator: profiles (shell or SSH host, page size,
// scrollback, reflow, frozen modes, bell, mouse/word/cursor settings,
// permissions, status display, palette, image limits), plus the
// input-mapping lists (key/char/mouse) that feed internal/session's
// BindingTable. Loading follows dcosson-h2's internal/config/config.go
// (LoadFrom a path, yaml.Unmarshal, then validate) and
// patrick-goecommerce-Multiterminal-UI's internal/config (bounds-checked
// defaults applied to whatever the file didn't set). Per spec §1
// non-goals, this package loads and validates only — it does not render
// documentation strings or scaffold a default file on disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root of the YAML document: named profiles plus the
// input-mapping lists spec §6.4 calls out as shared across profiles.
type Config struct {
	DefaultProfile string              `yaml:"default_profile"`
	Profiles       map[string]*Profile `yaml:"profiles"`

	KeyMappings   []KeyMapping   `yaml:"key_mappings"`
	CharMappings  []CharMapping  `yaml:"char_mappings"`
	MouseMappings []MouseMapping `yaml:"mouse_mappings"`
}

// Profile is one named "default profile (shell or ssh host config, ...)"
// per spec §6.4. Exactly one of Shell or SSHHost is set.
type Profile struct {
	Shell   string     `yaml:"shell"`
	Args    []string   `yaml:"args"`
	SSHHost *SSHHost   `yaml:"ssh_host"`

	InitialRows int `yaml:"initial_rows"`
	InitialCols int `yaml:"initial_cols"`

	ScrollbackCapacity int  `yaml:"scrollback_capacity"`
	ReflowOnResize      bool `yaml:"reflow_on_resize"`

	// FrozenModes names DEC/ANSI modes (by the names in modeNames, see
	// modes.go) that DECRQM/DECSET/DECRST must treat as permanently set
	// or reset (spec §7 ProtocolMismatch: "DECRPM for a mode we don't
	// track"; a frozen mode is the inverse case — one we track but whose
	// value a profile pins).
	FrozenModes map[string]bool `yaml:"frozen_modes"`

	Bell BellConfig `yaml:"bell"`

	MouseSelectionAction      string `yaml:"mouse_selection_action"`
	BypassMouseProtocolModifier string `yaml:"bypass_mouse_protocol_modifier"`
	WordDelimiters            string `yaml:"word_delimiters"`

	// Cursor maps a vi navigation mode name ("insert", "normal", "visual",
	// "visual_line", "visual_block") to its cursor rendering config.
	Cursor map[string]CursorConfig `yaml:"cursor"`

	HighlightTimeoutMS int `yaml:"highlight_timeout_ms"`

	Permissions PermissionsConfig `yaml:"permissions"`

	InitialStatusDisplay string `yaml:"initial_status_display"`

	Palette     *PaletteConfig `yaml:"palette"`
	DarkPalette *PaletteConfig `yaml:"dark_palette"`
	LightPalette *PaletteConfig `yaml:"light_palette"`

	MaxImageWidth          int `yaml:"max_image_width"`
	MaxImageHeight         int `yaml:"max_image_height"`
	MaxImageColorRegisters int `yaml:"max_image_color_registers"`

	SixelScrollingDefault bool `yaml:"sixel_scrolling_default"`
	SpawnNewProcess       bool `yaml:"spawn_new_process"`
}

// SSHHost is the "ssh host config" half of a Profile's target, and also
// the known-hosts write-back target spec §6.5 describes.
type SSHHost struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	User            string   `yaml:"user"`
	KnownHostsPath  string   `yaml:"known_hosts_path"`
	PrivateKeyPaths []string `yaml:"private_key_paths"`
}

// BellConfig controls how BEL (0x07) is surfaced.
type BellConfig struct {
	Audible bool   `yaml:"audible"`
	Visual  bool   `yaml:"visual"`
	Command string `yaml:"command"`
}

// CursorConfig is one input-mode's cursor rendering style.
type CursorConfig struct {
	Shape string `yaml:"shape"` // "block", "underline", "bar"
	Blink bool   `yaml:"blink"`
}

// DefaultConfigDir returns the core's configuration directory
// (~/.config/vtcore/), following the XDG-ish layout dcosson-h2 and
// patrick-goecommerce-Multiterminal-UI both use for their own dotfiles.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".vtcore")
	}
	return filepath.Join(home, ".config", "vtcore")
}

// Load reads the config from ~/.config/vtcore/config.yaml. A missing
// file is not an error: it returns a Config with a single "default"
// profile built from zero-value defaults (DefaultProfile below).
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(DefaultConfigDir(), "config.yaml"))
}

// LoadFrom reads and validates the config at path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		DefaultProfile: "default",
		Profiles: map[string]*Profile{
			"default": DefaultProfile(),
		},
	}
}

// DefaultProfile returns the zero-value-sane profile used when a config
// file omits "default" or doesn't exist at all: the login shell, an
// 80x24 page, 10000 lines of scrollback, reflow on, capture_buffer and
// change_font allowed and display_host_writable_status_line set to Ask
// (spec's non-goal on config *synthesis* means this is intentionally
// minimal, not a documented default set).
func DefaultProfile() *Profile {
	return &Profile{
		Shell:              os.Getenv("SHELL"),
		InitialRows:        24,
		InitialCols:        80,
		ScrollbackCapacity: 10000,
		ReflowOnResize:     true,
		MouseSelectionAction:      "copy",
		WordDelimiters:            " \t\n,;:.!?/\\()[]{}<>'\"`",
		HighlightTimeoutMS:        500,
		Permissions: PermissionsConfig{
			CaptureBuffer:                  PolicyAllow,
			ChangeFont:                     PolicyAllow,
			DisplayHostWritableStatusLine:  PolicyAsk,
		},
		InitialStatusDisplay:   "none",
		MaxImageWidth:          4096,
		MaxImageHeight:         4096,
		MaxImageColorRegisters: 1024,
	}
}

// Profile resolves the named profile, or the default profile when name
// is empty. It never returns nil for a validated Config.
func (c *Config) Profile(name string) (*Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("no such profile %q", name)
	}
	return p, nil
}

func (c *Config) validate() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}
	if c.DefaultProfile == "" {
		for name := range c.Profiles {
			c.DefaultProfile = name
			break
		}
	}
	if _, ok := c.Profiles[c.DefaultProfile]; !ok {
		return fmt.Errorf("default_profile %q has no matching profile entry", c.DefaultProfile)
	}
	for name, p := range c.Profiles {
		if err := p.validate(); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}
	for i, m := range c.KeyMappings {
		if err := m.validate(); err != nil {
			return fmt.Errorf("key_mappings[%d]: %w", i, err)
		}
	}
	for i, m := range c.CharMappings {
		if err := m.validate(); err != nil {
			return fmt.Errorf("char_mappings[%d]: %w", i, err)
		}
	}
	for i, m := range c.MouseMappings {
		if err := m.validate(); err != nil {
			return fmt.Errorf("mouse_mappings[%d]: %w", i, err)
		}
	}
	return nil
}

func (p *Profile) validate() error {
	if p.Shell == "" && p.SSHHost == nil {
		return fmt.Errorf("neither shell nor ssh_host set")
	}
	if p.Shell != "" && p.SSHHost != nil {
		return fmt.Errorf("both shell and ssh_host set, exactly one expected")
	}
	if p.InitialRows <= 0 {
		p.InitialRows = 24
	}
	if p.InitialCols <= 0 {
		p.InitialCols = 80
	}
	if p.ScrollbackCapacity < 0 {
		return fmt.Errorf("scrollback_capacity must be >= 0")
	}
	if p.SSHHost != nil {
		if p.SSHHost.Host == "" {
			return fmt.Errorf("ssh_host.host is required")
		}
		if p.SSHHost.Port == 0 {
			p.SSHHost.Port = 22
		}
	}
	for name := range p.FrozenModes {
		if _, ok := modeNames[name]; !ok {
			return fmt.Errorf("frozen_modes: unknown mode %q", name)
		}
	}
	for modeName := range p.Cursor {
		if _, ok := viModeNames[modeName]; !ok {
			return fmt.Errorf("cursor: unknown vi mode %q", modeName)
		}
	}
	if err := p.Permissions.validate(); err != nil {
		return fmt.Errorf("permissions: %w", err)
	}
	return nil
}
