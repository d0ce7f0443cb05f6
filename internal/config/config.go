package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// Config captures the settings grocy-tui needs to reach a Grocy server.
type Config struct {
	ServerURL    string
	APIKey       string
	LogFile      string
	LogLevel     string
	Locale       string
	Capabilities Capabilities
}

// Capabilities are configuration-time switches for optional UI parts.
type Capabilities struct {
	SystemSettings   bool
	SidebarToggle    bool
	FormPresentation string
}

const (
	defaultConfigPath       = "~/.config/grocy-tui/config.toml"
	defaultLogFile          = "~/.local/state/grocy-tui/grocy-tui.log"
	defaultServerURL        = "http://127.0.0.1:9283"
	defaultLogLevel         = "info"
	defaultLocale           = "en"
	defaultFormPresentation = "stack"

	// APIKeyEnv overrides api_key from the file.
	APIKeyEnv = "GROCY_API_KEY"
)

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

func defaults() Config {
	return Config{
		ServerURL: defaultServerURL,
		LogFile:   mustExpand(defaultLogFile),
		LogLevel:  defaultLogLevel,
		Locale:    defaultLocale,
		Capabilities: Capabilities{
			SystemSettings:   true,
			FormPresentation: defaultFormPresentation,
		},
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL    string `toml:"server_url"`
		APIKey       string `toml:"api_key"`
		LogFile      string `toml:"log_file"`
		LogLevel     string `toml:"log_level"`
		Locale       string `toml:"locale"`
		Capabilities struct {
			SystemSettings   *bool  `toml:"system_settings"`
			SidebarToggle    *bool  `toml:"sidebar_toggle"`
			FormPresentation string `toml:"form_presentation"`
		} `toml:"capabilities"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.ServerURL); v != "" {
		cfg.ServerURL = strings.TrimRight(v, "/")
	}
	cfg.APIKey = strings.TrimSpace(raw.APIKey)
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Locale); v != "" {
		cfg.Locale = v
	}
	if raw.Capabilities.SystemSettings != nil {
		cfg.Capabilities.SystemSettings = *raw.Capabilities.SystemSettings
	}
	if raw.Capabilities.SidebarToggle != nil {
		cfg.Capabilities.SidebarToggle = *raw.Capabilities.SidebarToggle
	}
	if v := strings.TrimSpace(raw.Capabilities.FormPresentation); v != "" {
		cfg.Capabilities.FormPresentation = strings.ToLower(v)
	}

	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(APIKeyEnv)); v != "" {
		cfg.APIKey = v
	}
}

func (c Config) validate() error {
	switch c.Capabilities.FormPresentation {
	case "stack", "sheet":
	default:
		return fmt.Errorf("capabilities.form_presentation %q: want stack or sheet", c.Capabilities.FormPresentation)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("locale %q: %w", c.Locale, err)
	}
	return nil
}

// SlogLevel maps log_level to a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Language returns the locale as a language tag; invalid values mean English.
func (c Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", value, err)
	}
	return level, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
