package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.
The SMTP password is read from FLOWDESK_SMTP_PASSWORD and never saved.

Example:
  flowdesk config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.OutOrStdout(), bufio.NewReader(os.Stdin))
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.DefaultConfigPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := config.Default().SaveTo(path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	})

	return cmd
}

func runConfigInteractive(out io.Writer, reader *bufio.Reader) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(out, cfg)

	// Ask if user wants to edit
	if !promptYesNo(out, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.User.Owner = promptValue(out, reader, "Owner", cfg.User.Owner)
	cfg.User.Email = promptValue(out, reader, "Email for automations", cfg.User.Email)
	cfg.Reminders.PollInterval = promptValue(out, reader, "Reminder poll interval", cfg.Reminders.PollInterval)
	cfg.Automation.Schedule = promptValue(out, reader, "Automation schedule (cron)", cfg.Automation.Schedule)
	cfg.Automation.Concurrency = promptInt(out, reader, "Automation concurrency", cfg.Automation.Concurrency)
	cfg.Planner.LiveHours = promptInt(out, reader, "Live planner hours", cfg.Planner.LiveHours)
	cfg.LLM.Provider = promptValue(out, reader, "LLM provider (groq, openai, ollama, lmstudio)", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(out, reader, "LLM model (empty for provider default)", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(out, reader, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.Driver = promptValue(out, reader, "Database driver (sqlite, postgres)", cfg.Storage.Driver)
	cfg.Storage.DSN = promptValue(out, reader, "Database path or DSN", cfg.Storage.DSN)
	cfg.Mail.Host = promptValue(out, reader, "SMTP host (empty to log emails)", cfg.Mail.Host)
	if cfg.Mail.Enabled() {
		cfg.Mail.Port = promptInt(out, reader, "SMTP port", cfg.Mail.Port)
		cfg.Mail.Username = promptValue(out, reader, "SMTP username", cfg.Mail.Username)
		cfg.Mail.From = promptValue(out, reader, "SMTP from address", cfg.Mail.From)
	}
	cfg.Log.Level = promptValue(out, reader, "Log level", cfg.Log.Level)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[user]")
	fmt.Fprintf(out, "  owner         = %s\n", cfg.User.Owner)
	fmt.Fprintf(out, "  email         = %s\n", cfg.User.Email)
	fmt.Fprintln(out, "\n[reminders]")
	fmt.Fprintf(out, "  poll_interval = %s\n", cfg.Reminders.PollInterval)
	fmt.Fprintln(out, "\n[automation]")
	fmt.Fprintf(out, "  schedule      = %s\n", cfg.Automation.Schedule)
	fmt.Fprintf(out, "  concurrency   = %d\n", cfg.Automation.Concurrency)
	fmt.Fprintln(out, "\n[planner]")
	fmt.Fprintf(out, "  live_hours    = %d\n", cfg.Planner.LiveHours)
	fmt.Fprintf(out, "  display_limit = %d\n", cfg.Planner.DisplayLimit)
	fmt.Fprintf(out, "  stats_days    = %d\n", cfg.Planner.StatsDays)
	fmt.Fprintln(out, "\n[llm]")
	fmt.Fprintf(out, "  provider      = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "  model         = %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "  base_url      = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  driver        = %s\n", cfg.Storage.Driver)
	fmt.Fprintf(out, "  dsn           = %s\n", cfg.Storage.DSN)
	if cfg.Mail.Enabled() {
		fmt.Fprintln(out, "\n[mail]")
		fmt.Fprintf(out, "  host          = %s\n", cfg.Mail.Host)
		fmt.Fprintf(out, "  port          = %d\n", cfg.Mail.Port)
		fmt.Fprintf(out, "  username      = %s\n", cfg.Mail.Username)
		fmt.Fprintf(out, "  from          = %s\n", cfg.Mail.From)
	}
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level         = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  file          = %s\n", cfg.Log.File)
}

func promptYesNo(out io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(out io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(out io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(out, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  %q is not a number\n", value)
	}
}
