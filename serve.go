package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"projecttracker/config"
	"projecttracker/metrics"
	"projecttracker/middleware"
	"projecttracker/realtime"
	"projecttracker/repository"
	"projecttracker/routes"
	"projecttracker/utils"
	"projecttracker/worker"
)

func runServe() error {
	if err := config.LoadConfig(); err != nil {
		return err
	}
	cfg := config.AppConfig

	if err := utils.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	flushSentry, err := utils.InitSentry(cfg.SentryDSN, cfg.Environment, Version)
	if err != nil {
		logrus.WithError(err).Warn("Sentry disabled")
	}
	defer flushSentry()

	if err := config.ConnectDB(); err != nil {
		return err
	}
	defer config.CloseDB()

	repos := repository.NewGormRepositories(config.DB)
	hub := realtime.NewHub(64)
	defer hub.Close()

	app := fiber.New(fiber.Config{
		AppName:      appName + " " + Version,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(middleware.CORS(corsConfig(cfg.CORSAllowedOrigins)))
	app.Use(metrics.Middleware())

	routes.SetupRoutes(app, repos, hub, middleware.NewAuth(cfg.AuthRequired, cfg.SessionSecret, repos.AdminUsers), routes.Options{
		Version:         Version,
		SessionSecret:   cfg.SessionSecret,
		SessionDuration: cfg.SessionDuration,
		LoginRateLimit:  cfg.LoginRateLimit,
		RateLimitStore:  middleware.NewRateLimitStorage(cfg.Redis),
		RequestLog:      true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OverallocationAuditInterval > 0 {
		auditor := worker.NewOverallocationWorker(repos.Allocations, cfg.OverallocationAuditInterval)
		go auditor.Start(ctx)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case <-quit:
		case <-ctx.Done():
			return
		}
		logrus.Info("Shutting down server...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.WithError(err).Error("Server shutdown failed")
		}
	}()

	logrus.WithField("port", cfg.ServerPort).Info("🚀 Server starting")
	return app.Listen(":" + cfg.ServerPort)
}

func corsConfig(origins []string) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowedOrigins = origins
	return c
}
