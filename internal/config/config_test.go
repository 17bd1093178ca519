package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Reminders.PollInterval != "1m" {
		t.Errorf("expected poll_interval 1m, got %s", cfg.Reminders.PollInterval)
	}
	if cfg.Automation.Concurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.Automation.Concurrency)
	}
	if cfg.Planner.LiveHours != 8 || cfg.Planner.DisplayLimit != 12 || cfg.Planner.StatsDays != 30 {
		t.Errorf("unexpected planner defaults: %+v", cfg.Planner)
	}
	if cfg.LLM.Provider != "groq" {
		t.Errorf("expected provider groq, got %s", cfg.LLM.Provider)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("expected driver sqlite, got %s", cfg.Storage.Driver)
	}
	if cfg.Mail.Port != 465 {
		t.Errorf("expected mail port 465, got %d", cfg.Mail.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Automation.Schedule != "*/5 * * * *" {
		t.Errorf("expected default schedule, got %s", cfg.Automation.Schedule)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[user]
owner = "alice"
email = "alice@example.com"

[automation]
schedule = "@every 10m"
concurrency = 2

[planner]
live_hours = 6
display_limit = 10
stats_days = 7

[llm]
provider = "ollama"
model = "llama3.2"
base_url = "http://localhost:11435"

[storage]
driver = "postgres"
dsn = "postgres://flowdesk@localhost/flowdesk?sslmode=disable"

[mail]
host = "smtp.example.com"
port = 587
from = "FlowDesk <noreply@example.com>"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.User.Owner != "alice" || cfg.User.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", cfg.User)
	}
	if cfg.Automation.Schedule != "@every 10m" || cfg.Automation.Concurrency != 2 {
		t.Errorf("unexpected automation: %+v", cfg.Automation)
	}
	if cfg.Planner.LiveHours != 6 || cfg.Planner.DisplayLimit != 10 || cfg.Planner.StatsDays != 7 {
		t.Errorf("unexpected planner: %+v", cfg.Planner)
	}
	if cfg.LLM.Provider != "ollama" || cfg.LLM.Model != "llama3.2" {
		t.Errorf("unexpected llm: %+v", cfg.LLM)
	}
	if cfg.Storage.DSN != "postgres://flowdesk@localhost/flowdesk?sslmode=disable" {
		t.Errorf("unexpected dsn %s", cfg.Storage.DSN)
	}
	if !cfg.Mail.Enabled() || cfg.Mail.Port != 587 {
		t.Errorf("unexpected mail: %+v", cfg.Mail)
	}
	// Unset keys keep their defaults.
	if cfg.Reminders.PollInterval != "1m" {
		t.Errorf("expected default poll_interval, got %s", cfg.Reminders.PollInterval)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[user\nowner = "), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[user]
owner = "alice"

[llm]
model = "from-file"

[storage]
dsn = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("FLOWDESK_OWNER", "bob")
	t.Setenv("FLOWDESK_LLM_PROVIDER", "openai")
	t.Setenv("FLOWDESK_AUTOMATION_CONCURRENCY", "8")
	t.Setenv("FLOWDESK_SMTP_PASSWORD", "s3cret")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.User.Owner != "bob" {
		t.Errorf("expected owner bob from env, got %s", cfg.User.Owner)
	}
	// File value should be kept when no env override
	if cfg.LLM.Model != "from-file" {
		t.Errorf("expected model from file, got %s", cfg.LLM.Model)
	}
	// Env should override default
	if cfg.LLM.Provider != "openai" {
		t.Errorf("expected provider openai from env, got %s", cfg.LLM.Provider)
	}
	if cfg.Automation.Concurrency != 8 {
		t.Errorf("expected concurrency 8 from env, got %d", cfg.Automation.Concurrency)
	}
	if cfg.Mail.Password != "s3cret" {
		t.Errorf("expected SMTP password from env")
	}
}

func TestLoadFrom_EnvNotAnInteger(t *testing.T) {
	t.Setenv("FLOWDESK_SMTP_PORT", "four-six-five")

	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non-numeric FLOWDESK_SMTP_PORT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty owner", func(c *Config) { c.User.Owner = " " }},
		{"bad poll interval", func(c *Config) { c.Reminders.PollInterval = "soon" }},
		{"tiny poll interval", func(c *Config) { c.Reminders.PollInterval = "10ms" }},
		{"bad schedule", func(c *Config) { c.Automation.Schedule = "every tuesday" }},
		{"zero concurrency", func(c *Config) { c.Automation.Concurrency = 0 }},
		{"zero live hours", func(c *Config) { c.Planner.LiveHours = 0 }},
		{"negative stats days", func(c *Config) { c.Planner.StatsDays = -1 }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mysql" }},
		{"empty dsn", func(c *Config) { c.Storage.DSN = "" }},
		{"mail without from", func(c *Config) { c.Mail.Host = "smtp.example.com" }},
		{"mail bad port", func(c *Config) {
			c.Mail.Host, c.Mail.From, c.Mail.Port = "smtp.example.com", "a@example.com", 70000
		}},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestReminderInterval(t *testing.T) {
	got, err := ReminderConfig{PollInterval: "90s"}.Interval()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 90*time.Second {
		t.Errorf("Interval() = %v, want 90s", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.User.Owner = "carol"
	cfg.Planner.LiveHours = 4
	cfg.Mail.Host = "smtp.example.com"
	cfg.Mail.From = "carol@example.com"
	cfg.Mail.Password = "never-saved"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.User.Owner != "carol" {
		t.Errorf("expected owner carol, got %s", loaded.User.Owner)
	}
	if loaded.Planner.LiveHours != 4 {
		t.Errorf("expected live_hours 4, got %d", loaded.Planner.LiveHours)
	}
	if loaded.Mail.Password != "" {
		t.Errorf("password should not be persisted, got %q", loaded.Mail.Password)
	}
}
