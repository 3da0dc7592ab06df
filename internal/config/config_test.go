package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	t.Setenv("GRUNTBOT_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GRUNTBOT_BASE_URL", "")
	t.Setenv("ANTHROPIC_BASE_URL", "")
	t.Setenv("GRUNTBOT_TELEGRAM_TOKEN", "")
	t.Setenv("GRUNTBOT_RESOURCE_DIR", "")
	t.Setenv("GRUNTBOT_PROFILE_PATH", "")
	t.Setenv("GRUNTBOT_SESSION_TIMEOUT", "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.Agent.Model != DefaultModel {
		t.Errorf("model = %q, want %q", cfg.Agent.Model, DefaultModel)
	}
	if cfg.Agent.MaxTokens != DefaultMaxTokens {
		t.Errorf("maxTokens = %d, want %d", cfg.Agent.MaxTokens, DefaultMaxTokens)
	}
	if cfg.Bot.SessionTimeoutSecs != DefaultSessionTimeoutSecs {
		t.Errorf("sessionTimeoutSecs = %d, want %d", cfg.Bot.SessionTimeoutSecs, DefaultSessionTimeoutSecs)
	}
	if cfg.Bot.ResourceDir == "" {
		t.Error("resourceDir should not be empty")
	}
	if cfg.Bot.ProfilePath == "" {
		t.Error("profilePath should not be empty")
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnvOverrides(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Agent.Model != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, cfg.Agent.Model)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	clearEnvOverrides(t)

	cfgDir := filepath.Join(tmpDir, ".gruntbot")
	os.MkdirAll(cfgDir, 0755)

	testCfg := map[string]any{
		"agent": map[string]any{
			"model":     "claude-opus-4-20250514",
			"maxTokens": 4096,
		},
		"provider": map[string]any{
			"apiKey": "sk-test-key",
		},
		"bot": map[string]any{
			"sessionTimeoutSecs": 600,
		},
	}
	data, _ := json.MarshalIndent(testCfg, "", "  ")
	os.WriteFile(filepath.Join(cfgDir, "config.json"), data, 0644)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Agent.Model != "claude-opus-4-20250514" {
		t.Errorf("model = %q, want claude-opus-4-20250514", cfg.Agent.Model)
	}
	if cfg.Provider.APIKey != "sk-test-key" {
		t.Errorf("apiKey = %q, want sk-test-key", cfg.Provider.APIKey)
	}
	if cfg.Bot.SessionTimeoutSecs != 600 {
		t.Errorf("sessionTimeoutSecs = %d, want 600", cfg.Bot.SessionTimeoutSecs)
	}
}

func TestLoadConfig_EnvPriority(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnvOverrides(t)

	// GRUNTBOT_API_KEY takes priority over ANTHROPIC_API_KEY
	t.Setenv("GRUNTBOT_API_KEY", "gruntbot-wins")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-loses")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Provider.APIKey != "gruntbot-wins" {
		t.Errorf("apiKey = %q, want gruntbot-wins", cfg.Provider.APIKey)
	}
}

func TestLoadConfig_OpenAIKeySetsProviderType(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnvOverrides(t)

	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Provider.APIKey != "sk-openai" {
		t.Errorf("apiKey = %q", cfg.Provider.APIKey)
	}
	if cfg.Provider.Type != "openai" {
		t.Errorf("provider type = %q, want openai", cfg.Provider.Type)
	}
}

func TestLoadConfig_TelegramTokenEnablesChannel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnvOverrides(t)

	t.Setenv("GRUNTBOT_TELEGRAM_TOKEN", "test-telegram-token")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Channels.Telegram.Token != "test-telegram-token" {
		t.Errorf("telegram token = %q", cfg.Channels.Telegram.Token)
	}
	if !cfg.Channels.Telegram.Enabled {
		t.Error("telegram should be enabled when token is set via env")
	}
}

func TestLoadConfig_SessionTimeoutEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnvOverrides(t)

	t.Setenv("GRUNTBOT_SESSION_TIMEOUT", "120")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Bot.SessionTimeoutSecs != 120 {
		t.Errorf("sessionTimeoutSecs = %d, want 120", cfg.Bot.SessionTimeoutSecs)
	}
}

func TestLoadConfig_BadSessionTimeoutIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnvOverrides(t)

	t.Setenv("GRUNTBOT_SESSION_TIMEOUT", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Bot.SessionTimeoutSecs != DefaultSessionTimeoutSecs {
		t.Errorf("sessionTimeoutSecs = %d, want default %d", cfg.Bot.SessionTimeoutSecs, DefaultSessionTimeoutSecs)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	clearEnvOverrides(t)

	cfgDir := filepath.Join(tmpDir, ".gruntbot")
	os.MkdirAll(cfgDir, 0755)
	os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte("invalid json"), 0644)

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg := DefaultConfig()
	cfg.Provider.APIKey = "test-key"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, ".gruntbot", "config.json"))
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}
	if loaded.Provider.APIKey != "test-key" {
		t.Errorf("saved apiKey = %q, want test-key", loaded.Provider.APIKey)
	}
}

func TestLoadConfig_EmptyProfilePathDerivedFromResourceDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	clearEnvOverrides(t)

	cfgDir := filepath.Join(tmpDir, ".gruntbot")
	os.MkdirAll(cfgDir, 0755)

	testCfg := map[string]any{
		"bot": map[string]any{
			"resourceDir": "/data/grunt-res",
			"profilePath": "",
		},
	}
	data, _ := json.MarshalIndent(testCfg, "", "  ")
	os.WriteFile(filepath.Join(cfgDir, "config.json"), data, 0644)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Bot.ProfilePath != filepath.Join("/data/grunt-res", "user_notes.json") {
		t.Errorf("profilePath = %q", cfg.Bot.ProfilePath)
	}
}
