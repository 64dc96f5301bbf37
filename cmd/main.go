package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/sentix/internal/repositories"
	"github.com/desertthunder/sentix/internal/services"
	"github.com/desertthunder/sentix/internal/session"
	"github.com/desertthunder/sentix/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("SENTIX_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	shared.SetLogLevel(logger, config.Log.ParseLevel())

	db, err := shared.OpenDatabase(ctx, config.Database)
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}

	client := services.NewClient(services.ClientOptions{
		BaseURL:           config.Backend.BaseURL,
		Timeout:           config.Backend.Timeout(),
		RequestsPerSecond: config.Backend.RequestsPerSecond,
		Logger:            shared.WithLogger(logger, "component", "gateway"),
	})
	tokens := repositories.NewTokenRepository(db)
	manager := session.NewManager(session.Options{
		Store:    tokens,
		Profiles: client,
		Logger:   shared.WithLogger(logger, "component", "session"),
	})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Gateway:    client,
		API:        client,
		Session:    manager,
		Tokens:     tokens,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "sentix",
		Usage:    "Analyze review sentiment from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(ctx, os.Args)
	db.Close()

	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
