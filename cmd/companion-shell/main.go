package main

import (
	"context"
	"log"
	"os"

	"companion-shell/internal/app"
	"companion-shell/internal/config"
	"companion-shell/internal/crash"
	"companion-shell/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}

	reporter, err := crash.Start(cfg.CrashDir, app.AppName, app.AppVersion, appLogger)
	if err != nil {
		appLogger.Warning("main", "crash reporting disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := run(cfg, appLogger, reporter); err != nil {
		appLogger.Error("main", "application terminated abnormally", err, nil)
		os.Exit(1)
	}
	appLogger.Info("main", "application terminated", nil)
}

func run(cfg *config.Config, appLogger logger.Logger, reporter *crash.Reporter) error {
	defer reporter.Recover()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.NewApplication(cfg, appLogger, reporter)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}
