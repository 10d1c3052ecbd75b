package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   string `koanf:"server"` // backend base URL, overridden by ENCORE_SERVER
	Token    string `koanf:"token"`  // API token, overridden by ENCORE_TOKEN
	LogLevel string `koanf:"log_level"`
	Icons    string `koanf:"icons"` // "nerd", "unicode" or "none"

	// Path of the reactive playback settings file (crossfade, normalization).
	SettingsFile string `koanf:"settings_file"`

	// Radio streams go through the backend proxy when set.
	RadioProxy bool `koanf:"radio_proxy"`

	// Last.fm scrobbling (enables scrobbling when configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	// Presence publishing (listening status)
	Presence PresenceConfig `koanf:"presence"`

	// Prometheus listener, e.g. "127.0.0.1:9464"; empty disables it
	MetricsAddr string `koanf:"metrics_addr"`
}

// LastfmConfig holds Last.fm scrobbling configuration.
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
}

// PresenceConfig selects the presence transport.
type PresenceConfig struct {
	Transport string `koanf:"transport"` // "websocket", "redis", "nats" or "none"
	URL       string `koanf:"url"`       // websocket or NATS URL
	Addr      string `koanf:"addr"`      // Redis address
	Password  string `koanf:"password"`  // Redis password
	Channel   string `koanf:"channel"`   // Redis channel or NATS subject
}

const (
	TransportNone      = "none"
	TransportWebSocket = "websocket"
	TransportRedis     = "redis"
	TransportNATS      = "nats"

	defaultChannel = "encore.presence"
)

func Load() (*Config, error) {
	// A missing .env is not an error.
	_ = godotenv.Load()
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files in order (last wins), skipping missing
// ones, then applies environment overrides.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		LogLevel: "info",
		Icons:    "unicode",
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("ENCORE_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("ENCORE_TOKEN"); v != "" {
		cfg.Token = v
	}

	cfg.Server = strings.TrimSuffix(cfg.Server, "/")

	if cfg.SettingsFile == "" {
		cfg.SettingsFile = defaultSettingsFile()
	}
	cfg.SettingsFile = expandPath(cfg.SettingsFile)

	cfg.Presence = cfg.Presence.withDefaults()

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/encore/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "encore", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func defaultSettingsFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "encore", "settings.toml")
	}
	return "settings.toml"
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasBackend returns true if a backend server is configured.
func (c *Config) HasBackend() bool {
	return c.Server != ""
}

// HasLastfmConfig returns true if Last.fm scrobbling is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

func (p PresenceConfig) withDefaults() PresenceConfig {
	p.Transport = strings.ToLower(strings.TrimSpace(p.Transport))
	switch p.Transport {
	case TransportWebSocket, TransportRedis, TransportNATS:
	default:
		p.Transport = TransportNone
	}
	if p.Channel == "" {
		p.Channel = defaultChannel
	}
	return p
}
