package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/sentix/internal/server"
	"github.com/desertthunder/sentix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Sandbox serves the in-memory backend until interrupted.
func (r *Runner) Sandbox(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Sandbox
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}
	if secret := cmd.String("secret"); secret != "" {
		cfg.Secret = secret
	}

	sandbox, err := server.New(server.Options{
		Secret:         cfg.Secret,
		TokenTTL:       time.Duration(cfg.TokenTTLMinutes) * time.Minute,
		MaxUploadBytes: r.config.Imports.MaxBytes,
		Logger:         shared.WithLogger(r.logger, "component", "sandbox"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.writePlain("Sandbox backend on http://%s (Ctrl+C to stop)\n", cfg.Addr())
	if err := sandbox.ListenAndServe(ctx, cfg.Addr()); err != nil {
		return fmt.Errorf("sandbox stopped: %w", err)
	}
	return nil
}
