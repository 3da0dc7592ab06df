package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultModel              = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens          = 1024
	DefaultBufSize            = 100
	DefaultSessionTimeoutSecs = 300
	DefaultSweepIntervalSecs  = 60
	DefaultSnapshotCron       = "0 0 4 * * *"
)

type Config struct {
	Agent    AgentConfig    `json:"agent"`
	Provider ProviderConfig `json:"provider"`
	Channels ChannelsConfig `json:"channels"`
	Bot      BotConfig      `json:"bot"`
}

type AgentConfig struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"maxTokens"`
}

type ProviderConfig struct {
	Type    string `json:"type,omitempty"` // "anthropic" (default) or "openai"
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl,omitempty"`
}

type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom"`
	Proxy     string   `json:"proxy,omitempty"`
}

// BotConfig holds the profiling bot's own knobs: where user profiles and word
// lists live, and how long an idle chat session survives before eviction.
type BotConfig struct {
	ResourceDir        string `json:"resourceDir"`
	ProfilePath        string `json:"profilePath"`
	SessionTimeoutSecs int    `json:"sessionTimeoutSecs"`
	SweepIntervalSecs  int    `json:"sweepIntervalSecs"`
	SnapshotCron       string `json:"snapshotCron,omitempty"`
}

func DefaultConfig() *Config {
	dir := ConfigDir()
	return &Config{
		Agent: AgentConfig{
			Model:     DefaultModel,
			MaxTokens: DefaultMaxTokens,
		},
		Provider: ProviderConfig{},
		Channels: ChannelsConfig{},
		Bot: BotConfig{
			ResourceDir:        filepath.Join(dir, "res"),
			ProfilePath:        filepath.Join(dir, "res", "user_notes.json"),
			SessionTimeoutSecs: DefaultSessionTimeoutSecs,
			SweepIntervalSecs:  DefaultSweepIntervalSecs,
			SnapshotCron:       DefaultSnapshotCron,
		},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".gruntbot")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if key := os.Getenv("GRUNTBOT_API_KEY"); key != "" {
		cfg.Provider.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = key
		if cfg.Provider.Type == "" {
			cfg.Provider.Type = "openai"
		}
	}
	if url := os.Getenv("GRUNTBOT_BASE_URL"); url != "" {
		cfg.Provider.BaseURL = url
	}
	if url := os.Getenv("ANTHROPIC_BASE_URL"); url != "" && cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = url
	}
	if token := os.Getenv("GRUNTBOT_TELEGRAM_TOKEN"); token != "" {
		cfg.Channels.Telegram.Token = token
		cfg.Channels.Telegram.Enabled = true
	}
	if dir := os.Getenv("GRUNTBOT_RESOURCE_DIR"); dir != "" {
		cfg.Bot.ResourceDir = dir
	}
	if path := os.Getenv("GRUNTBOT_PROFILE_PATH"); path != "" {
		cfg.Bot.ProfilePath = path
	}
	if timeout := os.Getenv("GRUNTBOT_SESSION_TIMEOUT"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil && parsed > 0 {
			cfg.Bot.SessionTimeoutSecs = parsed
		}
	}

	if cfg.Bot.ResourceDir == "" {
		cfg.Bot.ResourceDir = DefaultConfig().Bot.ResourceDir
	}
	if cfg.Bot.ProfilePath == "" {
		cfg.Bot.ProfilePath = filepath.Join(cfg.Bot.ResourceDir, "user_notes.json")
	}
	if cfg.Bot.SessionTimeoutSecs <= 0 {
		cfg.Bot.SessionTimeoutSecs = DefaultSessionTimeoutSecs
	}
	if cfg.Bot.SweepIntervalSecs <= 0 {
		cfg.Bot.SweepIntervalSecs = DefaultSweepIntervalSecs
	}

	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}
