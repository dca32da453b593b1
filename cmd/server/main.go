// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifesync/config"
	"lifesync/internal/assistant"
	"lifesync/internal/auth"
	"lifesync/internal/bot"
	"lifesync/internal/community"
	"lifesync/internal/db"
	"lifesync/internal/gpt"
	"lifesync/internal/posture"
	"lifesync/internal/profile"
	"lifesync/internal/server"
	"lifesync/internal/storage"
	"lifesync/internal/tracker"
	"lifesync/pkg/logger"
)

func main() {
	l := logger.New()
	l.Info("Starting LifeSync API...")

	cfg, err := config.Load()
	if err != nil {
		l.Fatalw("Failed to load config", "error", err)
	}

	// Validate critical configuration
	if cfg.Auth.JWTSecret == "" {
		l.Fatal("JWT secret is not configured")
	}
	if cfg.GPT.APIKey == "" {
		l.Warn("GPT API key is not configured, chat replies will report an authentication issue")
	}

	// Initialize database connection with retry
	var database *db.PostgresDB
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		database, err = db.NewPostgresDB(cfg.DB)
		if err == nil {
			break
		}
		l.Errorw("Failed to connect to database, retrying...", "error", err, "attempt", i+1)
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	if database == nil {
		l.Fatalw("Failed to connect to database after multiple attempts", "error", err)
	}
	defer database.Close()

	if err := db.Migrate(cfg.DB.DSN()); err != nil {
		l.Fatalw("Failed to migrate database", "error", err)
	}

	var uploader profile.Uploader
	if cfg.Storage.Bucket != "" {
		s3, err := storage.NewS3(context.Background(), cfg.Storage)
		if err != nil {
			l.Fatalw("Failed to initialize object storage", "error", err)
		}
		uploader = s3
	} else {
		l.Warn("Storage bucket is not configured, profile photo uploads are disabled")
	}

	var estimator posture.Estimator
	if cfg.Pose.Endpoint != "" {
		estimator = posture.NewRemoteEstimator(cfg.Pose.Endpoint, posture.ModelConfig{
			Architecture:    cfg.Pose.Architecture,
			OutputStride:    cfg.Pose.OutputStride,
			InputResolution: cfg.Pose.InputResolution,
			QuantBytes:      cfg.Pose.QuantBytes,
		}, cfg.Pose.Timeout)
	} else {
		l.Warn("Pose endpoint is not configured, photo analysis will report failure")
	}

	chat := assistant.New(gpt.NewClient(cfg.GPT), l.Named("assistant"))

	services := server.Services{
		Auth:      auth.NewService(database, auth.NewTokens(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, l.Named("auth")),
		Profile:   profile.NewService(database, uploader, l.Named("profile")),
		Tracker:   tracker.NewService(database, l.Named("tracker")),
		Community: community.NewService(database, l.Named("community")),
		Posture:   posture.NewAnalyzer(estimator, l.Named("posture")),
		Assistant: chat,
		DB:        database,
	}

	// The Telegram front end is optional.
	var telegramBot *bot.TelegramBot
	if cfg.Telegram.Token != "" {
		telegramBot, err = bot.NewTelegramBot(cfg.Telegram.Token, chat, l.Named("telegram"))
		if err != nil {
			l.Fatalw("Failed to create Telegram bot", "error", err)
		}
		if err := telegramBot.Start(context.Background()); err != nil {
			l.Fatalw("Failed to start Telegram bot", "error", err)
		}
		l.Info("Telegram bot started successfully")
	}

	httpServer := server.NewServer(cfg.Server.Port, server.NewRouter(services, l.Named("http")), l)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatalw("Failed to start HTTP server", "error", err)
		}
	}()

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Stop HTTP server first
	if err := httpServer.Stop(ctx); err != nil {
		l.Errorw("Error during HTTP server shutdown", "error", err)
	}

	if telegramBot != nil {
		if err := telegramBot.Stop(ctx); err != nil {
			l.Errorw("Error during bot shutdown", "error", err)
		}
	}

	l.Info("Stopped successfully")
}
