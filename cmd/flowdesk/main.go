package main

import (
	"fmt"
	"os"

	"github.com/javiermolinar/flowdesk/internal/config"
	"github.com/javiermolinar/flowdesk/internal/logging"
	"github.com/javiermolinar/flowdesk/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer func() { _ = log.Close() }()

	app := ui.NewApp(cfg, log.Logger)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
