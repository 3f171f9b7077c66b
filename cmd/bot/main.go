// Package main starts the bot process lifecycle.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/bot/app"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/platform/config"
)

func main() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	var cfg app.RuntimeConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("parse config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		config.Exitf("bot exited: %v", err)
	}
}
