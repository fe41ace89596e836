package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all coldcase configuration.
type Config struct {
	// Case selection
	Case CaseConfig `yaml:"case"`

	// Analysis assistant
	Assistant AssistantConfig `yaml:"assistant"`

	// Gameplay tuning
	Game GameConfig `yaml:"game"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// CaseConfig selects the case archive to play.
type CaseConfig struct {
	// Path to a YAML case file, or the name of a built-in case.
	Source string `yaml:"source"`
}

// AssistantConfig configures the analysis assistant.
type AssistantConfig struct {
	Provider string `yaml:"provider"` // gemini, none
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// GameConfig tunes interpreter behavior.
type GameConfig struct {
	// DecryptDelay is the pause between a correct password and the unlock.
	DecryptDelay string `yaml:"decrypt_delay"`

	// ContextLimit caps the archive document sent to the assistant, in bytes.
	// 0 means no cap.
	ContextLimit int `yaml:"context_limit"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Case: CaseConfig{
			Source: "rainy_night",
		},
		Assistant: AssistantConfig{
			Provider: "gemini",
			Model:    "gemini-3-flash-preview",
			Timeout:  "60s",
		},
		Game: GameConfig{
			DecryptDelay: "800ms",
			ContextLimit: 64 * 1024,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// DefaultPath returns the config location inside a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".coldcase", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides. Later keys win.
func (c *Config) applyEnvOverrides() {
	for _, env := range []string{"API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			c.Assistant.APIKey = key
			if c.Assistant.Provider == "" || c.Assistant.Provider == "none" {
				c.Assistant.Provider = "gemini"
			}
		}
	}
	if model := os.Getenv("COLDCASE_MODEL"); model != "" {
		c.Assistant.Model = model
	}
	if src := os.Getenv("COLDCASE_CASE"); src != "" {
		c.Case.Source = src
	}
}

// GetAssistantTimeout returns the assistant timeout as a duration.
func (c *Config) GetAssistantTimeout() time.Duration {
	d, err := time.ParseDuration(c.Assistant.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// GetDecryptDelay returns the decrypt delay as a duration. An explicit "0s"
// disables the delay.
func (c *Config) GetDecryptDelay() time.Duration {
	d, err := time.ParseDuration(c.Game.DecryptDelay)
	if err != nil || d < 0 {
		return 800 * time.Millisecond
	}
	return d
}

// AssistantEnabled reports whether ask can reach a model.
func (c *Config) AssistantEnabled() bool {
	return c.Assistant.Provider != "none" && c.Assistant.APIKey != ""
}

// ValidProviders lists all supported assistant providers.
var ValidProviders = []string{"gemini", "none"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	valid := false
	for _, p := range ValidProviders {
		if c.Assistant.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid assistant provider: %s (valid: %v)", c.Assistant.Provider, ValidProviders)
	}
	if c.Game.ContextLimit < 0 {
		return fmt.Errorf("game.context_limit must not be negative")
	}
	if _, err := time.ParseDuration(c.Game.DecryptDelay); c.Game.DecryptDelay != "" && err != nil {
		return fmt.Errorf("invalid game.decrypt_delay %q: %w", c.Game.DecryptDelay, err)
	}
	return nil
}
