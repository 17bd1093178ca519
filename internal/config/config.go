// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config holds the application configuration.
type Config struct {
	User       UserConfig       `toml:"user"`
	Reminders  ReminderConfig   `toml:"reminders"`
	Automation AutomationConfig `toml:"automation"`
	Planner    PlannerConfig    `toml:"planner"`
	LLM        LLMConfig        `toml:"llm"`
	Storage    StorageConfig    `toml:"storage"`
	Mail       MailConfig       `toml:"mail"`
	Log        LogConfig        `toml:"log"`
}

// UserConfig identifies whose tasks the CLI works on.
type UserConfig struct {
	Owner string `toml:"owner"`
	Email string `toml:"email"` // where automation emails go
}

// ReminderConfig holds reminder polling settings.
type ReminderConfig struct {
	PollInterval string `toml:"poll_interval"` // e.g., "1m"
}

// AutomationConfig holds automation sweep settings.
type AutomationConfig struct {
	Schedule    string `toml:"schedule"`    // cron spec, e.g., "*/5 * * * *" or "@every 5m"
	Concurrency int    `toml:"concurrency"` // automations fired in parallel
}

// PlannerConfig holds live planner settings.
type PlannerConfig struct {
	LiveHours    int `toml:"live_hours"`
	DisplayLimit int `toml:"display_limit"`
	StatsDays    int `toml:"stats_days"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "groq", "openai", "ollama", "lmstudio"
	Model    string `toml:"model"`    // empty means the provider default
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	Driver string `toml:"driver"` // "sqlite" or "postgres"
	DSN    string `toml:"dsn"`    // file path for sqlite, connection string for postgres
}

// MailConfig holds SMTP settings. The password is only read from the
// environment and never written to the config file.
type MailConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	From     string `toml:"from"`
	Password string `toml:"-"`
}

// Enabled returns true if an SMTP host is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // optional rotating log file
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		User: UserConfig{
			Owner: defaultOwner(),
		},
		Reminders: ReminderConfig{
			PollInterval: "1m",
		},
		Automation: AutomationConfig{
			Schedule:    "*/5 * * * *",
			Concurrency: 4,
		},
		Planner: PlannerConfig{
			LiveHours:    8,
			DisplayLimit: 12,
			StatsDays:    30,
		},
		LLM: LLMConfig{
			Provider: "groq",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    defaultDBPath(),
		},
		Mail: MailConfig{
			Port: 465,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultOwner() string {
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return "me"
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "flowdesk.db"
	}
	return filepath.Join(home, ".local", "share", "flowdesk", "flowdesk.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "flowdesk", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cfg.Storage.Driver == "sqlite" {
		cfg.Storage.DSN = expandPath(cfg.Storage.DSN)
	}
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	strs := []struct {
		env string
		dst *string
	}{
		{"FLOWDESK_OWNER", &cfg.User.Owner},
		{"FLOWDESK_EMAIL", &cfg.User.Email},
		{"FLOWDESK_REMINDER_POLL_INTERVAL", &cfg.Reminders.PollInterval},
		{"FLOWDESK_AUTOMATION_SCHEDULE", &cfg.Automation.Schedule},
		{"FLOWDESK_LLM_PROVIDER", &cfg.LLM.Provider},
		{"FLOWDESK_LLM_MODEL", &cfg.LLM.Model},
		{"FLOWDESK_LLM_BASE_URL", &cfg.LLM.BaseURL},
		{"FLOWDESK_DB_DRIVER", &cfg.Storage.Driver},
		{"FLOWDESK_DB_DSN", &cfg.Storage.DSN},
		{"FLOWDESK_SMTP_HOST", &cfg.Mail.Host},
		{"FLOWDESK_SMTP_USERNAME", &cfg.Mail.Username},
		{"FLOWDESK_SMTP_PASSWORD", &cfg.Mail.Password},
		{"FLOWDESK_SMTP_FROM", &cfg.Mail.From},
		{"FLOWDESK_LOG_LEVEL", &cfg.Log.Level},
		{"FLOWDESK_LOG_FILE", &cfg.Log.File},
	}
	for _, o := range strs {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"FLOWDESK_AUTOMATION_CONCURRENCY", &cfg.Automation.Concurrency},
		{"FLOWDESK_SMTP_PORT", &cfg.Mail.Port},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.env, v)
		}
		*o.dst = n
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.User.Owner) == "" {
		return errors.New("user.owner must be set")
	}

	if _, err := c.Reminders.Interval(); err != nil {
		return err
	}

	if _, err := cron.ParseStandard(c.Automation.Schedule); err != nil {
		return fmt.Errorf("automation.schedule %q: %w", c.Automation.Schedule, err)
	}
	if c.Automation.Concurrency < 1 {
		return errors.New("automation.concurrency must be at least 1")
	}

	if c.Planner.LiveHours < 1 || c.Planner.DisplayLimit < 1 || c.Planner.StatsDays < 1 {
		return errors.New("planner live_hours, display_limit and stats_days must be positive")
	}

	switch c.Storage.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid storage driver: %s", c.Storage.Driver)
	}
	if c.Storage.DSN == "" {
		return errors.New("storage.dsn must be set")
	}

	if c.Mail.Enabled() {
		if c.Mail.From == "" {
			return errors.New("mail.from must be set when mail.host is")
		}
		if c.Mail.Port < 1 || c.Mail.Port > 65535 {
			return fmt.Errorf("invalid mail.port: %d", c.Mail.Port)
		}
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// Interval parses the poll interval.
func (r ReminderConfig) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(r.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("reminders.poll_interval must be a duration, got %q", r.PollInterval)
	}
	if d < time.Second {
		return 0, fmt.Errorf("reminders.poll_interval must be at least 1s, got %s", d)
	}
	return d, nil
}

var validLogLevels = map[string]bool{
	"":        true,
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
