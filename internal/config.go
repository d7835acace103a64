package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	BackendCLI   = "cli"
	BackendGoGit = "gogit"

	CopyMessage    = "message"
	CopyIdentifier = "identifier"
)

type ClipboardConfig struct {
	Enabled bool   `yaml:"enabled"`
	Copy    string `yaml:"copy"`
}

type Config struct {
	Backend                string          `yaml:"backend"`
	GitBinary              string          `yaml:"git_binary,omitempty"`
	Clipboard              ClipboardConfig `yaml:"clipboard"`
	Repositories           []string        `yaml:"repositories,omitempty"`
	NotifyUnmatchedContext bool            `yaml:"notify_unmatched_context"`
	LogLevel               string          `yaml:"log_level,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:   BackendCLI,
		GitBinary: DefaultGitBinary,
		Clipboard: ClipboardConfig{
			Enabled: true,
			Copy:    CopyMessage,
		},
		LogLevel: "warn",
	}
}

// DefaultConfigPath is $XDG_CONFIG_HOME/recommit/config.yaml or the platform
// equivalent.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "recommit", "config.yaml")
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendCLI, BackendGoGit:
	default:
		return fmt.Errorf("invalid backend %q (must be %q or %q)", c.Backend, BackendCLI, BackendGoGit)
	}

	switch c.Clipboard.Copy {
	case CopyMessage, CopyIdentifier:
	default:
		return fmt.Errorf("invalid clipboard.copy %q (must be %q or %q)", c.Clipboard.Copy, CopyMessage, CopyIdentifier)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// HistorySource builds the history backend selected by Backend.
func (c *Config) HistorySource() HistorySource {
	if c.Backend == BackendGoGit {
		return NewGoGitHistory()
	}
	return NewGitCLIHistory(c.GitBinary)
}

func (c *Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
