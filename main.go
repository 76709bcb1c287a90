package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"armario-virtual/app"
	"armario-virtual/config"
	"armario-virtual/logger"
)

func main() {
	// Load .env in development; Overload lets .env win over the shell environment.
	// In production, variables should be set directly.
	envLoaded := false
	if os.Getenv("ENV") != "production" {
		envLoaded = godotenv.Overload(".env") == nil
	}

	cfg, err := config.NewConfig()
	if err != nil {
		logger.New("info", os.Stderr).Fatal("❌ invalid configuration", "err", err)
	}

	log := logger.New(cfg.LogLevel, os.Stderr)
	if envLoaded {
		log.Debug("loaded environment variables from .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Initialize(ctx, cfg, log)
	if err != nil {
		log.Fatal("❌ failed to initialize application", "err", err)
	}
	defer application.Close()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🚀 server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("❌ server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("🛑 shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ graceful shutdown failed", "err", err)
	}
}
