// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Field names, in the order they appear on the status line.
const (
	FieldMail    = "mail"
	FieldVolume  = "volume"
	FieldNetwork = "network"
	FieldBattery = "battery"
	FieldRAM     = "ram"
	FieldCPU     = "cpu"
	FieldTime    = "time"
)

// FieldOrder is the fixed order of fields on the status line.
// Changing it changes what the bar looks like.
var FieldOrder = []string{
	FieldMail,
	FieldVolume,
	FieldNetwork,
	FieldBattery,
	FieldRAM,
	FieldCPU,
	FieldTime,
}

// Audio backends.
const (
	AudioBackendPamixer = "pamixer"
	AudioBackendPulse   = "pulse"
)

// Notification listener modes.
const (
	NotifyModeServer  = "server"
	NotifyModeMonitor = "monitor"
)

// Output targets.
const (
	OutputX11    = "x11"
	OutputStdout = "stdout"
)

// Banner ceiling bounds.
const (
	MinBannerCeiling = 10 * time.Second
	MaxBannerCeiling = 60 * time.Second
)

// Default configuration values.
const (
	DefaultPollInterval = 500 * time.Millisecond
	DefaultMaxBanner    = 10 * time.Second
	DefaultSeparator    = " ⸱ "
	DefaultWired        = "dock0"
	DefaultWireless     = "wlp58s0"
	DefaultClockFormat  = "📆 %a, %d %b ⸱ 🕓 %R"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "500ms", "10s", "1m", or a string of integer milliseconds ("2500").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '500ms', '10s', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the configuration for dwmstatus.
// Loaded from ~/.config/dwmstatus/dwmstatus.toml
type Config struct {
	Timing        TimingConfig        `toml:"timing"`
	Fields        FieldsConfig        `toml:"fields"`
	Network       NetworkConfig       `toml:"network"`
	Audio         AudioConfig         `toml:"audio"`
	Mail          MailConfig          `toml:"mail"`
	Clock         ClockConfig         `toml:"clock"`
	Notifications NotificationsConfig `toml:"notifications"`
	Output        OutputConfig        `toml:"output"`
}

// TimingConfig controls the scheduler.
type TimingConfig struct {
	PollInterval Duration `toml:"poll_interval"` // Steady-state tick
	MaxBanner    Duration `toml:"max_banner"`    // Ceiling for banner display time
}

// FieldsConfig selects which fields are shown.
type FieldsConfig struct {
	Enabled   []string `toml:"enabled"`   // Output order is always FieldOrder
	Separator string   `toml:"separator"` // Placed between non-empty fields
}

// NetworkConfig names the interfaces to check.
type NetworkConfig struct {
	Wired    string `toml:"wired"`
	Wireless string `toml:"wireless"`
}

// AudioConfig selects how volume and mute are queried.
type AudioConfig struct {
	Backend string `toml:"backend"` // "pamixer" or "pulse"
}

// MailConfig holds the unread count command.
type MailConfig struct {
	Command []string `toml:"command"`
}

// ClockConfig holds the strftime layout for the time field.
type ClockConfig struct {
	Format string `toml:"format"`
}

// NotificationsConfig controls the notification listener.
type NotificationsConfig struct {
	Mode       string `toml:"mode"`        // "server" or "monitor"
	SelfNotify bool   `toml:"self_notify"` // Banner on config reload
}

// OutputConfig selects where the status line is written.
type OutputConfig struct {
	Target string `toml:"target"` // "x11" or "stdout"
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Timing: TimingConfig{
			PollInterval: Duration(DefaultPollInterval),
			MaxBanner:    Duration(DefaultMaxBanner),
		},
		Fields: FieldsConfig{
			Enabled:   slices.Clone(FieldOrder),
			Separator: DefaultSeparator,
		},
		Network: NetworkConfig{
			Wired:    DefaultWired,
			Wireless: DefaultWireless,
		},
		Audio: AudioConfig{
			Backend: AudioBackendPamixer,
		},
		Mail: MailConfig{
			Command: []string{"notmuch", "count", "tag:inbox"},
		},
		Clock: ClockConfig{
			Format: DefaultClockFormat,
		},
		Notifications: NotificationsConfig{
			Mode:       NotifyModeServer,
			SelfNotify: true,
		},
		Output: OutputConfig{
			Target: OutputX11,
		},
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "dwmstatus", "dwmstatus.toml"), nil
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns the default config if the file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Timing.PollInterval.Duration() <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.Timing.PollInterval.Duration())
	}

	maxBanner := c.Timing.MaxBanner.Duration()
	if maxBanner < MinBannerCeiling || maxBanner > MaxBannerCeiling {
		return fmt.Errorf("max_banner must be between %s and %s, got %s",
			MinBannerCeiling, MaxBannerCeiling, maxBanner)
	}

	seen := make(map[string]bool)
	for _, name := range c.Fields.Enabled {
		if !slices.Contains(FieldOrder, name) {
			return fmt.Errorf("unknown field %q, must be one of: %v", name, FieldOrder)
		}
		if seen[name] {
			return fmt.Errorf("field %q listed twice", name)
		}
		seen[name] = true
	}

	switch c.Audio.Backend {
	case AudioBackendPamixer, AudioBackendPulse:
	default:
		return fmt.Errorf("invalid audio backend %q", c.Audio.Backend)
	}

	if c.FieldEnabled(FieldMail) && len(c.Mail.Command) == 0 {
		return errors.New("mail command cannot be empty while the mail field is enabled")
	}

	switch c.Notifications.Mode {
	case NotifyModeServer, NotifyModeMonitor:
	default:
		return fmt.Errorf("invalid notifications mode %q", c.Notifications.Mode)
	}

	switch c.Output.Target {
	case OutputX11, OutputStdout:
	default:
		return fmt.Errorf("invalid output target %q", c.Output.Target)
	}

	return nil
}

// FieldEnabled reports whether the named field is shown.
func (c *Config) FieldEnabled(name string) bool {
	return slices.Contains(c.Fields.Enabled, name)
}

// EnabledFields returns the enabled fields in status line order.
func (c *Config) EnabledFields() []string {
	fields := make([]string, 0, len(FieldOrder))
	for _, name := range FieldOrder {
		if c.FieldEnabled(name) {
			fields = append(fields, name)
		}
	}
	return fields
}
